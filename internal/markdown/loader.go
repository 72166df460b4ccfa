package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/frontmatter"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/slugs"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// LoaderConfig configures how markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where content lives. Only used to turn
	// absolute paths into filesystem-relative ones.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Exclude lists directory names skipped during traversal (e.g. "books").
	Exclude []string
	// Logger receives collection warnings. Defaults to a no-op logger.
	Logger interfaces.Logger
}

// Loader turns filesystem paths into raw content items.
type Loader struct {
	fs       fs.FS
	basePath string
	pattern  string
	exclude  map[string]struct{}
	logger   interfaces.Logger
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			exclude[trimmed] = struct{}{}
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	basePath := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		basePath = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:       filesystem,
		basePath: basePath,
		pattern:  pattern,
		exclude:  exclude,
		logger:   logger,
	}
}

// LoadFile reads a single markdown file, splits its frontmatter, settles the
// content type and resolves the slug.
func (l *Loader) LoadFile(ctx context.Context, filePath string) (content.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return content.RawItem{}, err
	}

	rel, err := l.makeRelative(filePath)
	if err != nil {
		return content.RawItem{}, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return content.RawItem{}, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	doc := frontmatter.Parse(string(data))
	meta := doc.Meta

	if raw, ok := meta["type"]; !ok || raw == nil || raw == "" {
		meta["type"] = string(content.InferType(rel))
	}
	typ := fmt.Sprint(meta["type"])

	resolved := slugs.Resolve(scalarString(meta["slug"]), path.Base(rel))
	meta["slug"] = resolved

	if resolved == "" || !slug.IsValid(resolved) {
		logging.WithItemContext(l.logger, rel, typ, resolved).Warn("markdown.loader.slug_suspicious")
	}

	return content.RawItem{
		FilePath:    rel,
		FrontMatter: meta,
		Body:        doc.Body,
	}, nil
}

// LoadDirectory discovers markdown files under dir and returns them ordered by
// path, which is the collection order every later phase preserves.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]content.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	var paths []string
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if _, skip := l.exclude[d.Name()]; skip && current != root {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if l.matchesPattern(current) {
			paths = append(paths, current)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", root, walkErr)
	}

	sort.Strings(paths)

	items := make([]content.RawItem, 0, len(paths))
	for _, current := range paths {
		item, err := l.LoadFile(ctx, current)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	l.logger.Debug("markdown.loader.collected", "root", root, "count", len(items))
	return items, nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (l *Loader) matchesPattern(current string) bool {
	pattern := filepath.ToSlash(l.pattern)
	if strings.Contains(pattern, "**") {
		// Basic support for ** by stripping repeated separators.
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path.Base(current)
	if strings.Contains(pattern, "/") {
		target = current
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

func (l *Loader) makeRelative(p string) (string, error) {
	clean := filepath.Clean(p)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", p)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", p, err)
	}
	return rel, nil
}
