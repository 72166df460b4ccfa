// Package pipeline runs a content build: collect, validate, index titles,
// render, collect books, then cross-reference.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-contentkit/internal/books"
	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/internal/validation"
	"github.com/goliatone/go-contentkit/internal/xref"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// DefaultBooksDir is the books folder inside the content root.
const DefaultBooksDir = "books"

// ErrContentDirRequired is returned when neither a content dir nor a
// filesystem is configured.
var ErrContentDirRequired = errors.New("pipeline: content dir or filesystem required")

// Config controls a Pipeline.
type Config struct {
	// ContentDir is the root of the content tree.
	ContentDir string
	// FS replaces the filesystem rooted at ContentDir.
	FS fs.FS
	// Books enables book collection from BooksDir.
	Books    bool
	BooksDir string
	// Workers bounds concurrent renders. Zero uses GOMAXPROCS.
	Workers      int
	RelatedLimit int
	Render       interfaces.RenderOptions
	Taxonomy     *taxonomy.Taxonomy
	Logger       interfaces.LoggerProvider
}

// StepTiming records how long one phase took.
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// Result is the output of a successful build.
type Result struct {
	BuildID   uuid.UUID
	Items     []*content.Item
	Books     []*content.Book
	Backlinks *xref.Backlinks
	Graph     *xref.Graph
	Titles    *xref.TitleIndex
	Timings   []StepTiming
}

// Pipeline is reusable across builds. Each Build starts from the files on
// disk; nothing is cached between runs.
type Pipeline struct {
	cfg       Config
	service   *markdown.Service
	validator *validation.Validator
	books     *books.Collector
	logger    interfaces.Logger
}

// New wires the collectors and the renderer shared by every build.
func New(cfg Config) (*Pipeline, error) {
	if strings.TrimSpace(cfg.ContentDir) == "" && cfg.FS == nil {
		return nil, ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.BooksDir) == "" {
		cfg.BooksDir = DefaultBooksDir
	}
	if cfg.Taxonomy == nil {
		cfg.Taxonomy = taxonomy.Default()
	}

	logger := logging.PipelineLogger(cfg.Logger)

	service, err := markdown.NewService(markdown.Config{
		BasePath: cfg.ContentDir,
		Exclude:  []string{cfg.BooksDir},
		Render:   cfg.Render,
		Taxonomy: cfg.Taxonomy,
		Logger:   logging.MarkdownLogger(cfg.Logger),
		FS:       cfg.FS,
	}, nil)
	if err != nil {
		return nil, err
	}

	filesystem := cfg.FS
	if filesystem == nil {
		filesystem = os.DirFS(cfg.ContentDir)
	}

	return &Pipeline{
		cfg:     cfg,
		service: service,
		validator: validation.New(
			validation.WithTaxonomy(cfg.Taxonomy),
			validation.WithLogger(logging.ValidationLogger(cfg.Logger)),
		),
		books: books.NewCollector(filesystem, books.Config{
			Renderer: service.Renderer(),
			Logger:   logging.BooksLogger(cfg.Logger),
		}),
		logger: logger,
	}, nil
}

// Build runs every phase in order. A validation failure stops the build
// before rendering and is returned as the aggregate validation error. The
// title index is complete before any item renders.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	result := &Result{BuildID: uuid.New()}
	ctx = logging.ContextWithFields(ctx, map[string]any{"build_id": result.BuildID.String()})
	logger := p.logger.WithContext(ctx)
	started := time.Now()

	step := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := fn(); err != nil {
			logger.Error("pipeline.step.failed", "step", name, "error", err)
			return err
		}
		elapsed := time.Since(start)
		result.Timings = append(result.Timings, StepTiming{Step: name, Duration: elapsed})
		logger.Debug("pipeline.step.completed", "step", name, "duration_ms", elapsed.Milliseconds())
		return nil
	}

	var raw []content.RawItem
	if err := step("collect", func() error {
		var err error
		raw, err = p.service.Collect(ctx, ".")
		return err
	}); err != nil {
		return nil, fmt.Errorf("collect content: %w", err)
	}

	if err := step("validate", func() error {
		var err error
		result.Items, err = p.validator.Validate(raw)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step("index", func() error {
		result.Titles = xref.BuildTitleIndex(result.Items)
		return nil
	}); err != nil {
		return nil, err
	}

	rc := interfaces.RenderContext{Titles: result.Titles}

	if err := step("render", func() error {
		return p.renderItems(ctx, result.Items, rc)
	}); err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}

	if p.cfg.Books {
		if err := step("books", func() error {
			var err error
			result.Books, err = p.books.Collect(ctx, p.cfg.BooksDir, rc)
			return err
		}); err != nil {
			return nil, fmt.Errorf("collect books: %w", err)
		}
	}

	if err := step("xref", func() error {
		result.Backlinks, result.Graph = xref.Resolve(result.Items, result.Titles)
		xref.Related(result.Items, p.cfg.RelatedLimit)
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Info("pipeline.build.completed",
		"items", len(result.Items),
		"books", len(result.Books),
		"backlinks", result.Backlinks.Len(),
		"links", len(result.Graph.Links),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

// Validate collects and validates without rendering. It returns the same
// aggregate error Build would.
func (p *Pipeline) Validate(ctx context.Context) ([]*content.Item, error) {
	raw, err := p.service.Collect(ctx, ".")
	if err != nil {
		return nil, fmt.Errorf("collect content: %w", err)
	}
	return p.validator.Validate(raw)
}

// renderItems renders each item into its own slot. The renderer and title
// index are shared read-only.
func (p *Pipeline) renderItems(ctx context.Context, items []*content.Item, rc interfaces.RenderContext) error {
	renderer := p.service.Renderer()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.workerCount(len(items)))

	for _, item := range items {
		group.Go(func() error {
			res, err := renderer.Render(groupCtx, []byte(item.Body), rc)
			if err != nil {
				return fmt.Errorf("%s: %w", item.FilePath, err)
			}
			item.HTML = res.HTML
			item.TOC = res.TOC
			return nil
		})
	}
	return group.Wait()
}

func (p *Pipeline) workerCount(items int) int {
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if items > 0 && workers > items {
		workers = items
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
