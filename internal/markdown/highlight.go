package markdown

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// DefaultHighlightLanguages is the fenced code language allowlist used when
// none is configured.
var DefaultHighlightLanguages = []string{
	"typescript", "javascript", "html", "css", "yaml", "json", "bash", "markdown", "go",
}

const (
	DefaultLightTheme = "github"
	DefaultDarkTheme  = "github-dark"
)

// HighlighterConfig configures NewHighlighter.
type HighlighterConfig struct {
	Languages []string
	Logger    interfaces.Logger
}

// Highlighter turns code into class-annotated HTML. Lexers are resolved once
// at construction; afterwards a Highlighter is read-only and safe to share.
type Highlighter struct {
	lexers    map[string]chroma.Lexer
	formatter *chromahtml.Formatter
	style     *chroma.Style
	logger    interfaces.Logger
}

var shared struct {
	once        sync.Once
	highlighter *Highlighter
}

// SharedHighlighter returns the process-wide highlighter for the default
// language allowlist, constructing it on first use.
func SharedHighlighter() *Highlighter {
	shared.once.Do(func() {
		shared.highlighter = NewHighlighter(HighlighterConfig{})
	})
	return shared.highlighter
}

// NewHighlighter builds a highlighter for the configured languages. Names
// without a chroma lexer are left out, so blocks in those languages render
// as plain code.
func NewHighlighter(cfg HighlighterConfig) *Highlighter {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	languages := cfg.Languages
	if len(languages) == 0 {
		languages = DefaultHighlightLanguages
	}

	h := &Highlighter{
		lexers:    make(map[string]chroma.Lexer, len(languages)),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styles.Get(DefaultLightTheme),
		logger:    logger,
	}
	for _, name := range languages {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		lexer := lexers.Get(key)
		if lexer == nil {
			logger.Warn("markdown.highlight.unknown_language", "language", key)
			continue
		}
		h.lexers[key] = chroma.Coalesce(lexer)
	}
	return h
}

// Supports reports whether language is on the allowlist.
func (h *Highlighter) Supports(language string) bool {
	_, ok := h.lexers[strings.ToLower(strings.TrimSpace(language))]
	return ok
}

// Block renders a code block. Unsupported languages and any highlighter
// failure produce an escaped <pre><code> block instead.
func (h *Highlighter) Block(language, code string) (out string) {
	lexer, ok := h.lexers[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return PlainCodeBlock(code)
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Debug("markdown.highlight.recovered", "language", language, "panic", fmt.Sprint(rec))
			out = PlainCodeBlock(code)
		}
	}()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		h.logger.Debug("markdown.highlight.tokenise_failed", "language", language, "error", err)
		return PlainCodeBlock(code)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		h.logger.Debug("markdown.highlight.format_failed", "language", language, "error", err)
		return PlainCodeBlock(code)
	}
	return buf.String()
}

// PlainCodeBlock renders code as an escaped, unhighlighted block.
func PlainCodeBlock(code string) string {
	return "<pre><code>" + html.EscapeString(code) + "</code></pre>\n"
}

// HighlightCSS writes the stylesheet for highlighted blocks: the light theme
// by default and the dark theme under prefers-color-scheme or an explicit
// data-theme="dark" attribute.
func HighlightCSS(w io.Writer, lightTheme, darkTheme string) error {
	if strings.TrimSpace(lightTheme) == "" {
		lightTheme = DefaultLightTheme
	}
	if strings.TrimSpace(darkTheme) == "" {
		darkTheme = DefaultDarkTheme
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var light, dark bytes.Buffer
	if err := formatter.WriteCSS(&light, styles.Get(lightTheme)); err != nil {
		return fmt.Errorf("markdown highlight css %s: %w", lightTheme, err)
	}
	if err := formatter.WriteCSS(&dark, styles.Get(darkTheme)); err != nil {
		return fmt.Errorf("markdown highlight css %s: %w", darkTheme, err)
	}

	scope := func(prefix string) string {
		return strings.NewReplacer(".chroma", prefix+" .chroma", ".bg ", prefix+" .bg ").Replace(dark.String())
	}

	var out strings.Builder
	out.WriteString(light.String())
	out.WriteString("@media (prefers-color-scheme: dark) {\n")
	out.WriteString(scope(`:root:not([data-theme="light"])`))
	out.WriteString("}\n")
	out.WriteString(scope(`[data-theme="dark"]`))

	_, err := io.WriteString(w, out.String())
	return err
}

type codeBlockExtension struct {
	highlighter *Highlighter
}

func (e *codeBlockExtension) Extend(m goldmark.Markdown) {
	// Overrides the default fenced code block renderer.
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{highlighter: e.highlighter}, 200),
	))
}

type codeBlockRenderer struct {
	highlighter *Highlighter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	_, _ = w.WriteString(r.highlighter.Block(string(n.Language(source)), code.String()))
	return ast.WalkSkipChildren, nil
}
