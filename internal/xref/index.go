// Package xref builds the cross-reference structures of a build: the title
// index used to resolve wikilinks, backlinks keyed by target URL, the
// knowledge graph and tag-based related posts.
package xref

import (
	"strings"

	"github.com/goliatone/go-contentkit/internal/content"
)

// TitleIndex maps lower-cased titles onto published URLs. It is read-only
// once built and satisfies interfaces.TitleResolver.
type TitleIndex struct {
	urls map[string]string
}

// BuildTitleIndex indexes every post, note and page. Drafts are indexed
// under their published URL. When titles collide the later item wins.
func BuildTitleIndex(items []*content.Item) *TitleIndex {
	index := &TitleIndex{urls: make(map[string]string, len(items))}
	for _, item := range items {
		if item == nil || !item.Type.Linkable() {
			continue
		}
		index.urls[strings.ToLower(item.Title)] = publishedURL(item)
	}
	return index
}

// ResolveTitle looks title up case-insensitively.
func (t *TitleIndex) ResolveTitle(title string) (string, bool) {
	if t == nil {
		return "", false
	}
	url, ok := t.urls[strings.ToLower(strings.TrimSpace(title))]
	return url, ok
}

// Len returns the number of indexed titles.
func (t *TitleIndex) Len() int {
	if t == nil {
		return 0
	}
	return len(t.urls)
}

func publishedURL(item *content.Item) string {
	bookSlug := ""
	if item.Chapter != nil {
		bookSlug = item.Chapter.BookSlug
	}
	return content.PublishedURL(item.Type, item.Slug, bookSlug)
}
