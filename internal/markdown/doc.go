// Package markdown collects markdown sources from a content tree and renders
// bodies to HTML. Rendering extends goldmark with callouts, wikilinks,
// highlighted code blocks, scroll-wrapped tables and a heading outline.
package markdown
