package xref

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/markdown"
)

// BacklinkEntry describes an item that links to a target.
type BacklinkEntry struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// Backlinks maps target URLs onto the entries pointing at them, keeping the
// order in which targets were first linked.
type Backlinks struct {
	order   []string
	entries map[string][]BacklinkEntry
}

// NewBacklinks returns an empty set.
func NewBacklinks() *Backlinks {
	return &Backlinks{entries: map[string][]BacklinkEntry{}}
}

// Add appends entry under target.
func (b *Backlinks) Add(target string, entry BacklinkEntry) {
	if _, ok := b.entries[target]; !ok {
		b.order = append(b.order, target)
	}
	b.entries[target] = append(b.entries[target], entry)
}

// Get returns the entries for target.
func (b *Backlinks) Get(target string) []BacklinkEntry {
	if b == nil {
		return nil
	}
	return b.entries[target]
}

// URLs lists targets in first-linked order.
func (b *Backlinks) URLs() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.order...)
}

// Len returns the number of targets.
func (b *Backlinks) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// MarshalJSON encodes the set as an object whose keys keep insertion order.
func (b *Backlinks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if b != nil {
		for i, target := range b.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(target)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(b.entries[target])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Node is a knowledge graph vertex.
type Node struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  content.Type `json:"type"`
}

// Link is a directed edge from the linking item to the linked one.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is serialised as-is for visualisation.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Resolve sweeps every post, note and page body for wikilinks in item order.
// Each resolved occurrence adds one backlink under the target URL and one
// edge; repeated links are kept. Unresolved titles are skipped. Nodes cover
// non-draft posts, notes and pages whether or not they are linked.
func Resolve(items []*content.Item, index *TitleIndex) (*Backlinks, *Graph) {
	backlinks := NewBacklinks()
	graph := &Graph{Nodes: []Node{}, Links: []Link{}}

	for _, item := range items {
		if item == nil || !item.Type.Linkable() {
			continue
		}
		source := publishedURL(item)
		for _, ref := range markdown.ExtractWikilinks(item.Body) {
			target, ok := index.ResolveTitle(ref.Title)
			if !ok {
				continue
			}
			backlinks.Add(target, BacklinkEntry{
				Title:       item.Title,
				URL:         source,
				Description: item.Description,
				Date:        item.Date,
			})
			graph.Links = append(graph.Links, Link{Source: source, Target: target})
		}
	}

	for _, item := range items {
		if item == nil || !item.Type.Linkable() || item.Draft {
			continue
		}
		url := publishedURL(item)
		graph.Nodes = append(graph.Nodes, Node{ID: url, Title: item.Title, URL: url, Type: item.Type})
	}

	return backlinks, graph
}
