package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type tableWrapperExtension struct{}

func (e *tableWrapperExtension) Extend(m goldmark.Markdown) {
	// Ahead of the table extension renderer so the wrapper owns KindTable.
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newTableWrapperRenderer(), 100),
	))
}

// tableWrapperRenderer surrounds the stock table output with a scroll
// container; rows and cells are still rendered by the table extension.
type tableWrapperRenderer struct {
	table renderer.NodeRendererFunc
}

type capturedFuncs map[ast.NodeKind]renderer.NodeRendererFunc

func (c capturedFuncs) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	c[kind] = fn
}

func newTableWrapperRenderer() *tableWrapperRenderer {
	funcs := capturedFuncs{}
	extension.NewTableHTMLRenderer().RegisterFuncs(funcs)
	return &tableWrapperRenderer{table: funcs[extast.KindTable]}
}

func (r *tableWrapperRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(extast.KindTable, r.renderTable)
}

func (r *tableWrapperRenderer) renderTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"table-wrapper\">\n")
	}
	status, err := r.table(w, source, node, entering)
	if !entering {
		_, _ = w.WriteString("</div>\n")
	}
	return status, err
}
