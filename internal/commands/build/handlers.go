// Package buildcmd exposes the build pipeline as go-command messages.
package buildcmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-contentkit/internal/commands"
	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/internal/pipeline"
	"github.com/goliatone/go-contentkit/internal/runtimeconfig"
	"github.com/goliatone/go-contentkit/internal/store"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

const (
	buildOperation    = "pipeline.build"
	validateOperation = "pipeline.validate"
)

var (
	_ command.Commander[BuildCommand]    = (*BuildHandler)(nil)
	_ command.Commander[ValidateCommand] = (*ValidateHandler)(nil)
)

// Report describes a finished build.
type Report struct {
	Result    *pipeline.Result
	OutputDir string
	Artifacts []string
	Export    *store.Summary
}

// Deps carries the collaborators shared by the handlers.
type Deps struct {
	Config   runtimeconfig.Config
	Logger   interfaces.LoggerProvider
	Taxonomy *taxonomy.Taxonomy
	// OnBuilt receives the report of every successful build.
	OnBuilt func(Report)
	// OnValidated receives the items of every successful validation.
	OnValidated func([]*content.Item)
	// CronExpression schedules periodic rebuilds. Empty uses DefaultCronExpression.
	CronExpression string
}

// BuildHandler runs BuildCommand.
type BuildHandler struct {
	inner      *commands.Handler[BuildCommand]
	cronConfig command.HandlerConfig
}

// NewBuildHandler creates a build handler over deps.
func NewBuildHandler(deps Deps, opts ...commands.HandlerOption[BuildCommand]) *BuildHandler {
	logger := commands.CommandLogger(deps.Logger, "build")

	exec := func(ctx context.Context, msg BuildCommand) error {
		cfg := applyBuildOverrides(deps.Config, msg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		p, err := NewPipeline(cfg, deps)
		if err != nil {
			return err
		}
		result, err := p.Build(ctx)
		if err != nil {
			return err
		}

		report := Report{Result: result, OutputDir: cfg.OutputDir}
		report.Artifacts, err = publishArtifacts(ctx, cfg.OutputDir, result, cfg, msg.HighlightCSS)
		if err != nil {
			return err
		}

		if msg.Export || cfg.Export.Enabled {
			summary, err := exportSnapshot(ctx, cfg, deps, result)
			if err != nil {
				return err
			}
			report.Export = &summary
		}

		logger.Info("build.command.completed",
			"build_id", result.BuildID.String(),
			"items", len(result.Items),
			"artifacts", len(report.Artifacts),
		)
		if deps.OnBuilt != nil {
			deps.OnBuilt(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildCommand]{
		commands.WithLogger[BuildCommand](logger),
		commands.WithOperation[BuildCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildCommand) map[string]any {
			fields := map[string]any{}
			if msg.ContentDir != "" {
				fields["content_dir"] = msg.ContentDir
			}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.Export {
				fields["export"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildCommand](logger)),
		commands.WithTimeout[BuildCommand](deps.Config.CommandTimeout),
	}
	handlerOpts = append(handlerOpts, opts...)

	cronExpr := strings.TrimSpace(deps.CronExpression)
	if cronExpr == "" {
		cronExpr = DefaultCronExpression
	}
	return &BuildHandler{
		inner:      commands.NewHandler(exec, handlerOpts...),
		cronConfig: command.HandlerConfig{Expression: cronExpr},
	}
}

// Execute satisfies command.Commander[BuildCommand].
func (h *BuildHandler) Execute(ctx context.Context, msg BuildCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateHandler runs ValidateCommand.
type ValidateHandler struct {
	inner *commands.Handler[ValidateCommand]
}

// NewValidateHandler creates a validation handler over deps.
func NewValidateHandler(deps Deps, opts ...commands.HandlerOption[ValidateCommand]) *ValidateHandler {
	logger := commands.CommandLogger(deps.Logger, "validate")

	exec := func(ctx context.Context, msg ValidateCommand) error {
		cfg := deps.Config
		if msg.ContentDir != "" {
			cfg.ContentDir = msg.ContentDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		p, err := NewPipeline(cfg, deps)
		if err != nil {
			return err
		}
		items, err := p.Validate(ctx)
		if err != nil {
			return err
		}
		logger.Info("validate.command.completed", "items", len(items))
		if deps.OnValidated != nil {
			deps.OnValidated(items)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateCommand]{
		commands.WithLogger[ValidateCommand](logger),
		commands.WithOperation[ValidateCommand](validateOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateCommand](logger)),
		commands.WithTimeout[ValidateCommand](deps.Config.CommandTimeout),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateCommand].
func (h *ValidateHandler) Execute(ctx context.Context, msg ValidateCommand) error {
	return h.inner.Execute(ctx, msg)
}

func applyBuildOverrides(cfg runtimeconfig.Config, msg BuildCommand) runtimeconfig.Config {
	if msg.ContentDir != "" {
		cfg.ContentDir = msg.ContentDir
	}
	if msg.OutputDir != "" {
		cfg.OutputDir = msg.OutputDir
	}
	if msg.Workers > 0 {
		cfg.Workers = msg.Workers
	}
	if msg.SkipBooks {
		cfg.Books.Enabled = false
	}
	if msg.Export {
		cfg.Export.Enabled = true
	}
	return cfg
}

// NewPipeline wires a pipeline for cfg, loading the taxonomy file when deps
// does not carry one.
func NewPipeline(cfg runtimeconfig.Config, deps Deps) (*pipeline.Pipeline, error) {
	tax := deps.Taxonomy
	if tax == nil && strings.TrimSpace(cfg.Taxonomy) != "" {
		loaded, err := taxonomy.Load(cfg.Taxonomy)
		if err != nil {
			return nil, err
		}
		tax = loaded
	}
	return pipeline.New(pipeline.Config{
		ContentDir:   cfg.ContentDir,
		Books:        cfg.Books.Enabled,
		BooksDir:     cfg.Books.Dir,
		Workers:      cfg.Workers,
		RelatedLimit: cfg.RelatedLimit,
		Render:       cfg.RenderOptions(),
		Taxonomy:     tax,
		Logger:       deps.Logger,
	})
}

// publishArtifacts writes every artifact or none: a failure before the final
// renames leaves the output directory as it was.
func publishArtifacts(ctx context.Context, root string, result *pipeline.Result, cfg runtimeconfig.Config, highlight bool) ([]string, error) {
	w, err := newStagedWriter(root)
	if err != nil {
		return nil, fmt.Errorf("prepare output dir: %w", err)
	}
	written, err := writeArtifacts(ctx, w, result, cfg, highlight)
	if err == nil {
		err = w.Commit(ctx)
	}
	if err != nil {
		_ = w.Discard()
		return nil, err
	}
	return written, nil
}

func writeArtifacts(ctx context.Context, w artifactWriter, result *pipeline.Result, cfg runtimeconfig.Config, highlight bool) ([]string, error) {
	books := result.Books
	if books == nil {
		books = []*content.Book{}
	}
	payloads := []struct {
		name  string
		value any
	}{
		{GraphFile, result.Graph},
		{BacklinksFile, result.Backlinks},
		{ContentFile, result.Items},
		{BooksFile, books},
	}

	var written []string
	for _, payload := range payloads {
		data, err := EncodeJSON(payload.value)
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", payload.name, err)
		}
		if err := w.WriteFile(ctx, payload.name, data); err != nil {
			return written, err
		}
		written = append(written, payload.name)
	}

	if highlight {
		var css bytes.Buffer
		if err := markdown.HighlightCSS(&css, cfg.Markdown.LightTheme, cfg.Markdown.DarkTheme); err != nil {
			return written, fmt.Errorf("highlight css: %w", err)
		}
		if err := w.WriteFile(ctx, HighlightFile, css.Bytes()); err != nil {
			return written, err
		}
		written = append(written, HighlightFile)
	}
	return written, nil
}

func exportSnapshot(ctx context.Context, cfg runtimeconfig.Config, deps Deps, result *pipeline.Result) (store.Summary, error) {
	db, err := store.Open(cfg.Export.Driver, cfg.Export.DSN)
	if err != nil {
		return store.Summary{}, err
	}
	defer db.Close()

	exporter := store.NewExporter(db, logging.StoreLogger(deps.Logger))
	return exporter.Export(ctx, result)
}
