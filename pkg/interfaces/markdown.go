package interfaces

import "context"

// TitleResolver maps a wikilink title onto a canonical URL. Lookups are
// case-insensitive; implementations must be safe for concurrent reads.
type TitleResolver interface {
	ResolveTitle(title string) (url string, ok bool)
}

// RenderOptions customises Markdown rendering, keeping option names readable
// for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	// Extensions selects goldmark extensions by name (gfm, table, footnote, ...).
	Extensions []string
	// Sanitize runs the rendered HTML through an allowlist policy.
	Sanitize bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// HighlightLanguages overrides the fenced code language allowlist.
	HighlightLanguages []string
}

// RenderContext carries per-build collaborators into a render call.
type RenderContext struct {
	Titles TitleResolver
}

// TOCEntry is a single h2/h3 heading captured while rendering.
type TOCEntry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Depth int    `json:"depth"`
}

// RenderResult is the output of rendering a Markdown body.
type RenderResult struct {
	HTML        string
	WordCount   int
	ReadingTime int
	TOC         []TOCEntry
}

// MarkdownRenderer converts Markdown into HTML using an explicit render context.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown []byte, rc RenderContext) (RenderResult, error)
}
