package contentkit_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-contentkit"
	"github.com/goliatone/go-contentkit/internal/logging/console"
	"github.com/goliatone/go-contentkit/pkg/testsupport"
)

func newModule(t *testing.T, mutate func(*contentkit.Config)) *contentkit.Module {
	t.Helper()
	root := t.TempDir()
	testsupport.WriteFile(t, root, "posts/alpha.md", "---\ntitle: Alpha\ndate: 2026-03-01\ndescription: First\ntags: [systems, tools]\n---\nAlpha body.\n")
	testsupport.WriteFile(t, root, "posts/beta.md", "---\ntitle: Beta\ndate: 2026-03-02\ndescription: Second\ntags: [systems]\n---\nLinks to [[alpha]].\n")

	cfg := contentkit.DefaultConfig()
	cfg.ContentDir = root
	cfg.OutputDir = filepath.Join(t.TempDir(), "dist")
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := contentkit.New(cfg, contentkit.WithLoggerProvider(console.NewProvider(console.Options{Writer: io.Discard})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := contentkit.DefaultConfig()
	cfg.ContentDir = ""
	if _, err := contentkit.New(cfg); !errors.Is(err, contentkit.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func itemBySlug(t *testing.T, items []*contentkit.Item, slug string) *contentkit.Item {
	t.Helper()
	for _, item := range items {
		if item.Slug == slug {
			return item
		}
	}
	t.Fatalf("item %q not found", slug)
	return nil
}

func TestModuleBuild(t *testing.T) {
	m := newModule(t, nil)

	result, err := m.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	alpha := itemBySlug(t, result.Items, "alpha")
	beta := itemBySlug(t, result.Items, "beta")
	if !strings.Contains(beta.HTML, `<a href="/posts/alpha/" class="wikilink">`) {
		t.Fatalf("expected resolved wikilink in beta html, got %q", beta.HTML)
	}
	if !strings.Contains(alpha.HTML, "<p>Alpha body.</p>") {
		t.Fatalf("unexpected alpha html %q", alpha.HTML)
	}

	entries := result.Backlinks.Get("/posts/alpha/")
	if len(entries) != 1 || entries[0].Title != "Beta" {
		t.Fatalf("unexpected backlinks %v", entries)
	}
	if got := result.Backlinks.Get("/posts/beta/"); len(got) != 0 {
		t.Fatalf("expected no backlinks for beta, got %v", got)
	}
	if len(result.Graph.Links) != 1 {
		t.Fatalf("expected one graph link, got %d", len(result.Graph.Links))
	}

	if len(alpha.Related) != 1 || alpha.Related[0].URL != "/posts/beta/" || alpha.Related[0].Score != 1 {
		t.Fatalf("unexpected related for alpha %+v", alpha.Related)
	}
	if len(beta.Related) != 1 || beta.Related[0].Slug != "alpha" {
		t.Fatalf("unexpected related for beta %+v", beta.Related)
	}
}

func TestModuleValidateRejectsUnknownTag(t *testing.T) {
	m := newModule(t, nil)
	testsupport.WriteFile(t, m.Config().ContentDir, "posts/gamma.md", "---\ntitle: Gamma\ndate: 2026-03-04\ndescription: Third\ntags: [go]\n---\nBody.\n")

	_, err := m.Validate(context.Background())
	issues := contentkit.Issues(err)
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].FilePath != "posts/gamma.md" || !strings.Contains(issues[0].Message, `unknown tag "go"`) {
		t.Fatalf("unexpected issue %v", issues[0])
	}
}

func TestModuleValidateSurfacesIssues(t *testing.T) {
	m := newModule(t, nil)
	testsupport.WriteFile(t, m.Config().ContentDir, "posts/broken.md", "---\ndate: 2026-03-03\n---\nBody.\n")

	_, err := m.Validate(context.Background())
	issues := contentkit.Issues(err)
	if len(issues) != 2 {
		t.Fatalf("expected title and description issues, got %v", issues)
	}
	for _, issue := range issues {
		if issue.FilePath != "posts/broken.md" {
			t.Fatalf("unexpected issue path %q", issue.FilePath)
		}
	}
}

func TestModuleExport(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "snapshot.db")
	m := newModule(t, func(cfg *contentkit.Config) {
		cfg.Export.DSN = dsn
	})

	result, err := m.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	summary, err := m.Export(context.Background(), result)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if summary.Items != 2 || summary.Books != 0 || summary.Backlinks != 1 || summary.Links != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestModuleExportRequiresDSN(t *testing.T) {
	m := newModule(t, nil)
	if _, err := m.Export(context.Background(), &contentkit.Result{}); !errors.Is(err, contentkit.ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled, got %v", err)
	}
}

func TestExtractWikilinks(t *testing.T) {
	got := contentkit.ExtractWikilinks("See [[One]] and [[Two|second]].")
	if len(got) != 2 || got[0].Title != "One" || got[1].Title != "Two" || got[1].Display != "second" {
		t.Fatalf("unexpected wikilinks %v", got)
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingSubscription struct {
	unsubscribed *int
}

func (s recordingSubscription) Unsubscribe() { *s.unsubscribed++ }

type recordingDispatcher struct {
	registered   int
	unsubscribed int
}

func (d *recordingDispatcher) RegisterCommand(any) (contentkit.CommandSubscription, error) {
	d.registered++
	return recordingSubscription{unsubscribed: &d.unsubscribed}, nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler any
}

func TestRegisterCommands(t *testing.T) {
	m := newModule(t, nil)

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	var crons []cronRegistration

	var reports []contentkit.BuildReport
	result, err := contentkit.RegisterCommands(m, contentkit.RegistrationOptions{
		Registry:   registry,
		Dispatcher: dispatcher,
		CronRegistrar: func(cfg command.HandlerConfig, handler any) error {
			crons = append(crons, cronRegistration{config: cfg, handler: handler})
			return nil
		},
		RebuildCron: "@every 10m",
		OnBuilt:     func(r contentkit.BuildReport) { reports = append(reports, r) },
	})
	if err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if len(result.Handlers) != 2 || len(registry.handlers) != 2 {
		t.Fatalf("expected build and validate handlers, got %d/%d", len(result.Handlers), len(registry.handlers))
	}
	if dispatcher.registered != 2 || len(result.Subscriptions) != 2 {
		t.Fatalf("expected two subscriptions, got %d", len(result.Subscriptions))
	}
	if len(crons) != 1 || crons[0].config.Expression != "@every 10m" {
		t.Fatalf("expected the build handler on the rebuild schedule, got %+v", crons)
	}

	run, ok := crons[0].handler.(func() error)
	if !ok {
		t.Fatalf("unexpected cron handler %T", crons[0].handler)
	}
	if err := run(); err != nil {
		t.Fatalf("cron build: %v", err)
	}
	if len(reports) != 1 || len(reports[0].Result.Items) != 2 {
		t.Fatalf("expected one report with two items, got %+v", reports)
	}

	result.Unsubscribe()
	if dispatcher.unsubscribed != 2 || len(result.Subscriptions) != 0 {
		t.Fatalf("expected subscriptions torn down, got %d", dispatcher.unsubscribed)
	}
}

func TestRegisterCommandsNilModule(t *testing.T) {
	result, err := contentkit.RegisterCommands(nil, contentkit.RegistrationOptions{})
	if err != nil || len(result.Handlers) != 0 {
		t.Fatalf("expected empty result, got %+v, %v", result, err)
	}
}
