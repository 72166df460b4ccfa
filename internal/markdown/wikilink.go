package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

var (
	wikilinkPattern = regexp.MustCompile(`\[\[([^\[\]|\n]+)(?:\|([^\[\]\n]+))?\]\]`)
	wikilinkPrefix  = regexp.MustCompile(`^` + wikilinkPattern.String())
)

var renderContextKey = parser.NewContextKey()

// WikilinkRef is a wikilink occurrence found by ExtractWikilinks.
type WikilinkRef struct {
	Title   string
	Display string
}

// ExtractWikilinks sweeps raw markdown for [[Title]] and [[Title|Display]]
// tokens in order of appearance. It does not parse markdown, so tokens inside
// code are reported too. Repeated links are all returned.
func ExtractWikilinks(markdown string) []WikilinkRef {
	matches := wikilinkPattern.FindAllStringSubmatch(markdown, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]WikilinkRef, 0, len(matches))
	for _, match := range matches {
		title := strings.TrimSpace(match[1])
		if title == "" {
			continue
		}
		display := strings.TrimSpace(match[2])
		if display == "" {
			display = title
		}
		refs = append(refs, WikilinkRef{Title: title, Display: display})
	}
	return refs
}

// KindWikilink is the node kind of Wikilink.
var KindWikilink = ast.NewNodeKind("Wikilink")

// Wikilink is an inline [[Title|Display]] reference. Destination is empty
// when the title did not resolve.
type Wikilink struct {
	ast.BaseInline
	Title       string
	Display     string
	Destination string
}

// Kind implements ast.Node.
func (n *Wikilink) Kind() ast.NodeKind {
	return KindWikilink
}

// Dump implements ast.Node.
func (n *Wikilink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Title":       n.Title,
		"Display":     n.Display,
		"Destination": n.Destination,
	}, nil)
}

// Resolved reports whether the link points at a known item.
func (n *Wikilink) Resolved() bool {
	return n.Destination != ""
}

type wikilinkExtension struct{}

func (e *wikilinkExtension) Extend(m goldmark.Markdown) {
	// Ahead of the standard link parser, which also triggers on '['.
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&wikilinkParser{}, 199),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&wikilinkHTMLRenderer{}, 500),
	))
}

type wikilinkParser struct{}

func (p *wikilinkParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikilinkParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 4 || line[1] != '[' {
		return nil
	}

	loc := wikilinkPrefix.FindSubmatchIndex(line)
	if loc == nil {
		return nil
	}

	title := string(bytes.TrimSpace(line[loc[2]:loc[3]]))
	if title == "" {
		return nil
	}
	display := title
	if loc[4] >= 0 {
		if trimmed := string(bytes.TrimSpace(line[loc[4]:loc[5]])); trimmed != "" {
			display = trimmed
		}
	}

	block.Advance(loc[1])

	node := &Wikilink{Title: title, Display: display}
	if rc, ok := pc.Get(renderContextKey).(interfaces.RenderContext); ok && rc.Titles != nil {
		if url, found := rc.Titles.ResolveTitle(title); found {
			node.Destination = url
		}
	}
	return node
}

type wikilinkHTMLRenderer struct{}

func (r *wikilinkHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikilink, r.renderWikilink)
}

func (r *wikilinkHTMLRenderer) renderWikilink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Wikilink)
	if n.Resolved() {
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(n.Destination), true)))
		_, _ = w.WriteString(`" class="wikilink">`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Display)))
		_, _ = w.WriteString("</a>")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(`<span class="wikilink wikilink-broken" title="Unresolved link: `)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Title)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Display)))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}
