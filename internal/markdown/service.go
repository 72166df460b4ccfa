package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// Config controls how the markdown service discovers and renders files.
type Config struct {
	BasePath string
	Pattern  string
	Exclude  []string
	Render   interfaces.RenderOptions
	Taxonomy *taxonomy.Taxonomy
	Logger   interfaces.Logger
	// FS overrides the filesystem rooted at BasePath, mainly for tests.
	FS fs.FS
}

// Service pairs a Loader with a Renderer for one content tree.
type Service struct {
	cfg      Config
	loader   *Loader
	renderer interfaces.MarkdownRenderer
}

// NewService constructs a markdown service. When renderer is nil a goldmark
// Renderer is created from cfg.Render.
func NewService(cfg Config, renderer interfaces.MarkdownRenderer) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	filesystem := cfg.FS
	if filesystem == nil {
		prepared, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		filesystem = prepared
	}

	if renderer == nil {
		renderer = NewRenderer(RendererConfig{
			Options:  cfg.Render,
			Taxonomy: cfg.Taxonomy,
			Logger:   logger,
		})
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath: cfg.BasePath,
		Pattern:  cfg.Pattern,
		Exclude:  cfg.Exclude,
		Logger:   logger,
	})

	return &Service{
		cfg:      cfg,
		loader:   loader,
		renderer: renderer,
	}, nil
}

// Collect reads every markdown file below dir (relative to the base path).
func (s *Service) Collect(ctx context.Context, dir string) ([]content.RawItem, error) {
	return s.loader.LoadDirectory(ctx, s.normalisePath(dir))
}

// Render converts a markdown body using the configured renderer.
func (s *Service) Render(ctx context.Context, markdown []byte, rc interfaces.RenderContext) (interfaces.RenderResult, error) {
	return s.renderer.Render(ctx, markdown, rc)
}

// Renderer exposes the renderer shared with other collectors such as books.
func (s *Service) Renderer() interfaces.MarkdownRenderer {
	return s.renderer
}

func (s *Service) normalisePath(p string) string {
	if strings.TrimSpace(p) == "" {
		return "."
	}
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
