package main

import (
	"context"
	"fmt"
	"io"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
	"github.com/goliatone/go-contentkit/internal/runtimeconfig"
	"github.com/goliatone/go-contentkit/internal/validation"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	cfgFile  string
	logLevel string
	cfg      runtimeconfig.Config
	logger   interfaces.LoggerProvider
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "contentkit",
		Short:         "Build markdown content into pages, backlinks and a knowledge graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./contentkit.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		a.buildCommand(),
		a.validateCommand(),
		a.graphCommand(),
		a.cssCommand(),
		a.taxonomyCommand(),
	)
	return root
}

func (a *app) init() error {
	cfg, used, err := loadConfig(a.cfgFile)
	if err != nil {
		return a.fail(err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	provider, err := cfg.Logging.NewLoggerProvider(a.stderr)
	if err != nil {
		return a.fail(err)
	}
	a.cfg = cfg
	a.logger = provider
	if used != "" {
		provider.GetLogger("contentkit.cli").Debug("config.loaded", "path", used)
	}
	return nil
}

// recorder keeps the handler's own error so callers can inspect it even when
// the dispatcher wraps what it returns.
type recorder[T command.Message] struct {
	next command.Commander[T]
	err  error
}

func (r *recorder[T]) Execute(ctx context.Context, msg T) error {
	r.err = r.next.Execute(ctx, msg)
	return r.err
}

// dispatch sends msg through the go-command dispatcher to handler.
func dispatch[T command.Message](ctx context.Context, handler command.Commander[T], msg T) error {
	rec := &recorder[T]{next: handler}
	sub := dispatcher.SubscribeCommand[T](rec)
	defer sub.Unsubscribe()

	err := dispatcher.Dispatch(ctx, msg)
	if rec.err != nil {
		return rec.err
	}
	return err
}

func (a *app) deps() buildcmd.Deps {
	return buildcmd.Deps{Config: a.cfg, Logger: a.logger}
}

// fail prints err (every validation issue when there are any) and returns it
// so cobra exits non-zero.
func (a *app) fail(err error) error {
	if issues := validation.Issues(err); len(issues) > 0 {
		fmt.Fprintf(a.stderr, "%d validation error(s):\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(a.stderr, "  %s\n", issue)
		}
		return err
	}
	fmt.Fprintf(a.stderr, "error: %v\n", err)
	return err
}
