package markdown

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// RendererConfig wires the collaborators of a Renderer.
type RendererConfig struct {
	Options     interfaces.RenderOptions
	Taxonomy    *taxonomy.Taxonomy
	Highlighter *Highlighter
	Logger      interfaces.Logger
}

// Renderer converts markdown bodies into HTML. A Renderer is built once per
// build and is safe for concurrent use; per-call state travels through the
// RenderContext argument.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
	logger interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer builds the goldmark engine with the configured extensions. A
// nil taxonomy falls back to the default vocabulary and a nil highlighter to
// the shared one (or a dedicated one when the options name languages).
func NewRenderer(cfg RendererConfig) *Renderer {
	tax := cfg.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	highlighter := cfg.Highlighter
	if highlighter == nil {
		if len(cfg.Options.HighlightLanguages) > 0 {
			highlighter = NewHighlighter(HighlighterConfig{Languages: cfg.Options.HighlightLanguages, Logger: logger})
		} else {
			highlighter = SharedHighlighter()
		}
	}

	r := &Renderer{
		engine: newGoldmarkEngine(cfg.Options, tax, highlighter),
		logger: logger,
	}
	if cfg.Options.Sanitize {
		r.policy = newSanitizePolicy()
	}
	return r
}

// Render parses markdown, resolves wikilinks through rc, and returns the HTML
// with word statistics and the h2/h3 outline. Word statistics come from the
// markdown source, not the HTML.
func (r *Renderer) Render(ctx context.Context, markdown []byte, rc interfaces.RenderContext) (interfaces.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.RenderResult{}, err
	}

	pc := parser.NewContext()
	pc.Set(renderContextKey, rc)

	doc := r.engine.Parser().Parse(text.NewReader(markdown), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, markdown, doc); err != nil {
		return interfaces.RenderResult{}, fmt.Errorf("markdown render: %w", err)
	}

	out := buf.String()
	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}

	words := content.CountWords(string(markdown))
	return interfaces.RenderResult{
		HTML:        out,
		WordCount:   words,
		ReadingTime: content.ReadingTime(words),
		TOC:         collectTOC(doc, markdown),
	}, nil
}

// newGoldmarkEngine builds a goldmark.Markdown configured from the render
// options. Unsupported extension names are ignored.
func newGoldmarkEngine(opts interfaces.RenderOptions, tax *taxonomy.Taxonomy, highlighter *Highlighter) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	exts = append(exts,
		&calloutExtension{taxonomy: tax},
		&wikilinkExtension{},
		&codeBlockExtension{highlighter: highlighter},
		&tableWrapperExtension{},
	)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// Raw HTML passes through unless the output is sanitised afterwards.
	if !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(exts...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// DefaultExtensions are enabled when no extension names are configured.
var DefaultExtensions = []string{"gfm", "footnote"}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		names = DefaultExtensions
	}

	var extenders []goldmark.Extender
	seen := map[goldmark.Extender]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		extenders = append(extenders, ext)
		seen[ext] = struct{}{}
	}

	return extenders
}

// ExtensionNames lists the extension identifiers accepted in RenderOptions.
func ExtensionNames() []string {
	return slices.Sorted(maps.Keys(extensionRegistry))
}
