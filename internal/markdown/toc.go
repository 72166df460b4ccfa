package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// collectTOC lists h2 and h3 headings in document order. Headings without an
// id attribute are skipped.
func collectTOC(doc ast.Node, source []byte) []interfaces.TOCEntry {
	var entries []interfaces.TOCEntry
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 || heading.Level == 3 {
			id, _ := heading.AttributeString("id")
			idBytes, _ := id.([]byte)
			if len(idBytes) > 0 {
				entries = append(entries, interfaces.TOCEntry{
					ID:    string(idBytes),
					Text:  strings.TrimSpace(plainText(heading, source)),
					Depth: heading.Level,
				})
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return entries
}

func plainText(node ast.Node, source []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *Wikilink:
			b.WriteString(n.Display)
		default:
			b.WriteString(plainText(child, source))
		}
	}
	return b.String()
}
