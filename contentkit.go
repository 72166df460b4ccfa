// Package contentkit turns a tree of markdown files with YAML frontmatter into
// rendered items, books, a backlinks map and a knowledge graph.
package contentkit

import (
	"context"
	"errors"
	"os"

	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/internal/pipeline"
	"github.com/goliatone/go-contentkit/internal/store"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/internal/validation"
	"github.com/goliatone/go-contentkit/internal/xref"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// Item is a validated, rendered content file.
type Item = content.Item

// Book is a collected book with its chapters.
type Book = content.Book

// Result carries everything a build produces.
type Result = pipeline.Result

// Backlinks maps a target URL to the entries linking to it.
type Backlinks = xref.Backlinks

// BacklinkEntry describes one linking item.
type BacklinkEntry = xref.BacklinkEntry

// Graph is the node/link view of resolved wikilinks.
type Graph = xref.Graph

// Issue is one frontmatter violation.
type Issue = validation.Issue

// Taxonomy holds the allowed tag and callout vocabularies.
type Taxonomy = taxonomy.Taxonomy

// ExportSummary counts the rows written by Export.
type ExportSummary = store.Summary

// ErrExportDisabled is returned by Export when no database is configured.
var ErrExportDisabled = errors.New("contentkit: export dsn is not configured")

// Issues returns every validation issue carried by err.
func Issues(err error) []Issue { return validation.Issues(err) }

// WikilinkRef is one [[Title]] or [[Title|Display]] occurrence.
type WikilinkRef = markdown.WikilinkRef

// ExtractWikilinks returns the wikilinks found in body, in order.
func ExtractWikilinks(body string) []WikilinkRef { return markdown.ExtractWikilinks(body) }

// Option customises a Module.
type Option func(*Module)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.logger = provider
		}
	}
}

// WithTaxonomy overrides the vocabularies loaded from Config.Taxonomy.
func WithTaxonomy(tax *Taxonomy) Option {
	return func(m *Module) {
		m.taxonomy = tax
	}
}

// Module is the top level build façade.
type Module struct {
	cfg      Config
	logger   interfaces.LoggerProvider
	taxonomy *Taxonomy
}

// New validates cfg and constructs a module.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.logger == nil {
		provider, err := cfg.Logging.NewLoggerProvider(os.Stderr)
		if err != nil {
			return nil, err
		}
		m.logger = provider
	}
	return m, nil
}

// Config returns the module configuration.
func (m *Module) Config() Config {
	return m.cfg
}

// LoggerProvider exposes the logger provider used by every stage.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.logger
}

// Build runs the full pipeline without writing artifacts.
func (m *Module) Build(ctx context.Context) (*Result, error) {
	p, err := buildcmd.NewPipeline(m.cfg, m.deps())
	if err != nil {
		return nil, err
	}
	return p.Build(ctx)
}

// Validate collects and validates content without rendering.
func (m *Module) Validate(ctx context.Context) ([]*Item, error) {
	p, err := buildcmd.NewPipeline(m.cfg, m.deps())
	if err != nil {
		return nil, err
	}
	return p.Validate(ctx)
}

// Export writes result to the configured database, replacing any earlier snapshot.
func (m *Module) Export(ctx context.Context, result *Result) (ExportSummary, error) {
	if m.cfg.Export.DSN == "" {
		return ExportSummary{}, ErrExportDisabled
	}
	db, err := store.Open(m.cfg.Export.Driver, m.cfg.Export.DSN)
	if err != nil {
		return ExportSummary{}, err
	}
	defer db.Close()

	return store.NewExporter(db, logging.StoreLogger(m.logger)).Export(ctx, result)
}

// BuildHandler returns the go-command handler for BuildCommand.
func (m *Module) BuildHandler() *buildcmd.BuildHandler {
	return buildcmd.NewBuildHandler(m.deps())
}

// ValidateHandler returns the go-command handler for ValidateCommand.
func (m *Module) ValidateHandler() *buildcmd.ValidateHandler {
	return buildcmd.NewValidateHandler(m.deps())
}

func (m *Module) deps() buildcmd.Deps {
	return buildcmd.Deps{
		Config:   m.cfg,
		Logger:   m.logger,
		Taxonomy: m.taxonomy,
	}
}
