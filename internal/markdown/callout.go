package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-contentkit/internal/taxonomy"
)

var calloutMarker = regexp.MustCompile(`^\[!(\w+)\]\s*`)

// KindCallout is the node kind of Callout.
var KindCallout = ast.NewNodeKind("Callout")

// Callout is a blockquote promoted to a typed note block by a leading
// [!TYPE] marker.
type Callout struct {
	ast.BaseBlock
	CalloutType string
}

// Kind implements ast.Node.
func (n *Callout) Kind() ast.NodeKind {
	return KindCallout
}

// Dump implements ast.Node.
func (n *Callout) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"CalloutType": n.CalloutType}, nil)
}

type calloutExtension struct {
	taxonomy *taxonomy.Taxonomy
}

func (e *calloutExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&calloutTransformer{taxonomy: e.taxonomy}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&calloutHTMLRenderer{}, 500),
	))
}

type calloutTransformer struct {
	taxonomy *taxonomy.Taxonomy
}

func (t *calloutTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var quotes []*ast.Blockquote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if bq, ok := n.(*ast.Blockquote); ok {
				quotes = append(quotes, bq)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, bq := range quotes {
		t.promote(bq, source)
	}
}

func (t *calloutTransformer) promote(bq *ast.Blockquote, source []byte) {
	para, ok := bq.FirstChild().(*ast.Paragraph)
	if !ok || para.Lines().Len() == 0 {
		return
	}

	first := para.Lines().At(0)
	match := calloutMarker.FindSubmatchIndex(first.Value(source))
	if match == nil {
		return
	}
	calloutType := strings.ToLower(string(first.Value(source)[match[2]:match[3]]))
	if !t.taxonomy.IsCallout(calloutType) {
		return
	}

	stripMarker(para, first.Start+match[1])
	if para.ChildCount() == 0 {
		bq.RemoveChild(bq, para)
	}

	callout := &Callout{CalloutType: calloutType}
	for child := bq.FirstChild(); child != nil; {
		next := child.NextSibling()
		callout.AppendChild(callout, child)
		child = next
	}
	bq.Parent().ReplaceChild(bq.Parent(), bq, callout)
}

// stripMarker drops the inline text that lies before markerEnd in the source.
func stripMarker(para *ast.Paragraph, markerEnd int) {
	for child := para.FirstChild(); child != nil; {
		textNode, ok := child.(*ast.Text)
		if !ok || textNode.Segment.Start >= markerEnd {
			return
		}
		next := child.NextSibling()
		if textNode.Segment.Stop <= markerEnd {
			para.RemoveChild(para, child)
		} else {
			textNode.Segment = textNode.Segment.WithStart(markerEnd)
			return
		}
		child = next
	}
}

type calloutHTMLRenderer struct{}

func (r *calloutHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCallout, r.renderCallout)
}

func (r *calloutHTMLRenderer) renderCallout(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</aside>\n")
		return ast.WalkContinue, nil
	}
	n := node.(*Callout)
	_, _ = w.WriteString(`<aside class="callout callout-`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.CalloutType)))
	_, _ = w.WriteString("\" role=\"note\">\n")
	return ast.WalkContinue, nil
}
