// Package books collects long-form books: a folder per book holding a
// book.yaml manifest and one folder per chapter.
package books

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

var (
	chapterNumberPattern = regexp.MustCompile(`(?i)Chapter\s*(\d+)`)
	chapterTitlePattern  = regexp.MustCompile(`(?m)^#\s*\**([^*\n]+)\**`)
	relativeSrcPattern   = regexp.MustCompile(`src="\./([^"]+)"`)
)

// ErrRendererRequired is returned when a collector is used without a renderer.
var ErrRendererRequired = errors.New("books: renderer required")

// Config configures a Collector.
type Config struct {
	Renderer interfaces.MarkdownRenderer
	Logger   interfaces.Logger
}

// Collector reads books from a filesystem.
type Collector struct {
	fs       fs.FS
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
}

// NewCollector builds a Collector over filesystem.
func NewCollector(filesystem fs.FS, cfg Config) *Collector {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Collector{fs: filesystem, renderer: cfg.Renderer, logger: logger}
}

// Collect reads every book folder directly under dir. A missing dir yields no
// books. Folders without a manifest are skipped with a warning. Chapters are
// rendered with rc so wikilinks resolve against the build's title index.
func (c *Collector) Collect(ctx context.Context, dir string, rc interfaces.RenderContext) ([]*content.Book, error) {
	if c.renderer == nil {
		return nil, ErrRendererRequired
	}
	dir = path.Clean(dir)

	entries, err := fs.ReadDir(c.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read books dir %s: %w", dir, err)
	}

	var books []*content.Book
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		book, err := c.collectBook(ctx, dir, entry.Name(), rc)
		if err != nil {
			return nil, err
		}
		if book != nil {
			books = append(books, book)
		}
	}
	return books, nil
}

func (c *Collector) collectBook(ctx context.Context, dir, name string, rc interfaces.RenderContext) (*content.Book, error) {
	bookPath := path.Join(dir, name)
	manifestPath := path.Join(bookPath, ManifestFile)

	data, err := fs.ReadFile(c.fs, manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("books.skip", "book", name, "reason", "no "+ManifestFile+" found")
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	manifest, date, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	chapters, err := c.collectChapters(ctx, bookPath, name, date, rc)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("books.collected", "book", name, "chapters", len(chapters))

	return &content.Book{
		Slug:        name,
		Title:       manifest.Title,
		Author:      manifest.Author,
		Description: manifest.Description,
		Genre:       manifest.Genre,
		Status:      manifest.Status,
		Date:        date,
		CoverImage:  manifest.CoverImage,
		Chapters:    chapters,
		FilePath:    manifestPath,
	}, nil
}

func (c *Collector) collectChapters(ctx context.Context, bookPath, bookSlug string, date time.Time, rc interfaces.RenderContext) ([]*content.Item, error) {
	chaptersDir := path.Join(bookPath, "chapters")
	entries, err := fs.ReadDir(c.fs, chaptersDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*content.Item{}, nil
		}
		return nil, fmt.Errorf("read chapters %s: %w", chaptersDir, err)
	}

	chapters := make([]*content.Item, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		chapterDir := path.Join(chaptersDir, entry.Name())
		file, err := firstMarkdownFile(c.fs, chapterDir)
		if err != nil {
			return nil, err
		}
		if file == "" {
			continue
		}
		chapter, err := c.buildChapter(ctx, path.Join(chapterDir, file), bookSlug, entry.Name(), date, rc)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}

	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Chapter.ChapterNumber < chapters[j].Chapter.ChapterNumber
	})
	return chapters, nil
}

func (c *Collector) buildChapter(ctx context.Context, filePath, bookSlug, folder string, date time.Time, rc interfaces.RenderContext) (*content.Item, error) {
	source, err := fs.ReadFile(c.fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("read chapter %s: %w", filePath, err)
	}

	meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	number := ChapterNumber(folder)
	title := ChapterTitle(string(body))

	result, err := c.renderer.Render(ctx, body, rc)
	if err != nil {
		return nil, fmt.Errorf("render chapter %s: %w", filePath, err)
	}

	return &content.Item{
		Slug:          "chapter-" + strconv.Itoa(number),
		Type:          content.TypeChapter,
		SchemaVersion: content.SchemaVersion,
		Title:         title,
		Date:          date,
		Draft:         meta.Draft,
		Tags:          []string{},
		Body:          string(body),
		HTML:          RewriteImagePaths(result.HTML, bookSlug, folder),
		WordCount:     result.WordCount,
		ReadingTime:   result.ReadingTime,
		TOC:           result.TOC,
		FilePath:      filePath,
		FrontMatter:   meta.Raw,
		Chapter: &content.ChapterFields{
			BookSlug:      bookSlug,
			ChapterNumber: number,
			ChapterTitle:  title,
		},
	}, nil
}

// ChapterNumber reads the number from a folder named like "Chapter 001".
// Folders without one sort first as chapter 0.
func ChapterNumber(folder string) int {
	match := chapterNumberPattern.FindStringSubmatch(folder)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// ChapterTitle returns the text of the first heading, or "Untitled".
func ChapterTitle(markdown string) string {
	match := chapterTitlePattern.FindStringSubmatch(markdown)
	if match == nil {
		return "Untitled"
	}
	if title := strings.TrimSpace(match[1]); title != "" {
		return title
	}
	return "Untitled"
}

// RewriteImagePaths points src="./x" attributes at the chapter folder under
// the public books route.
func RewriteImagePaths(html, bookSlug, folder string) string {
	prefix := "/books/" + bookSlug + "/chapters/" + folder + "/"
	return relativeSrcPattern.ReplaceAllStringFunc(html, func(match string) string {
		sub := relativeSrcPattern.FindStringSubmatch(match)
		return `src="` + prefix + sub[1] + `"`
	})
}

func firstMarkdownFile(filesystem fs.FS, dir string) (string, error) {
	entries, err := fs.ReadDir(filesystem, dir)
	if err != nil {
		return "", fmt.Errorf("read chapter dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			return entry.Name(), nil
		}
	}
	return "", nil
}
