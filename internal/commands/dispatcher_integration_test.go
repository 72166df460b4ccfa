package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type rebuildCommand struct {
	ContentDir string
}

func (rebuildCommand) Type() string { return "contentkit.test.rebuild" }

func (c rebuildCommand) Validate() error {
	if strings.TrimSpace(c.ContentDir) == "" {
		return errors.New("content dir required")
	}
	return nil
}

type flakyRenderCommand struct{}

func (flakyRenderCommand) Type() string { return "contentkit.test.flaky_render" }

func (flakyRenderCommand) Validate() error { return nil }

func TestDispatcherDeliversRebuild(t *testing.T) {
	var dirs []string
	handler := NewHandler(func(ctx context.Context, msg rebuildCommand) error {
		dirs = append(dirs, msg.ContentDir)
		return nil
	}, WithOperation[rebuildCommand]("pipeline.build"))

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), rebuildCommand{ContentDir: "content"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(dirs) != 1 || dirs[0] != "content" {
		t.Fatalf("expected one rebuild of content, got %v", dirs)
	}
}

func TestDispatcherStopsInvalidRebuild(t *testing.T) {
	ran := false
	handler := NewHandler(func(ctx context.Context, msg rebuildCommand) error {
		ran = true
		return nil
	})

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), rebuildCommand{ContentDir: "  "}); err == nil {
		t.Fatal("expected blank content dir to be rejected")
	}
	if ran {
		t.Fatal("expected handler body not to run for an invalid message")
	}
}

func TestDispatcherRetriesFlakyRender(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, _ flakyRenderCommand) error {
		attempts++
		if attempts < 3 {
			return errors.New("render worker unavailable")
		}
		return nil
	}, WithTimeout[flakyRenderCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), flakyRenderCommand{}); err != nil {
		t.Fatalf("dispatch: expected success on third attempt, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
