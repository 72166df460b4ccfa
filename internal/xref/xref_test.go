package xref_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/xref"
)

func item(typ content.Type, slug, title, body string) *content.Item {
	return &content.Item{
		Type:        typ,
		Slug:        slug,
		Title:       title,
		Body:        body,
		Description: title + " summary",
		Date:        time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestResolveWikilinkCreatesBacklinkAndEdge(t *testing.T) {
	alpha := item(content.TypePost, "alpha", "Alpha", "Alpha body.")
	beta := item(content.TypePost, "beta", "Beta", "See [[Alpha]] for more")
	items := []*content.Item{alpha, beta}

	backlinks, graph := xref.Resolve(items, xref.BuildTitleIndex(items))

	entries := backlinks.Get("/posts/alpha/")
	if len(entries) != 1 || entries[0].URL != "/posts/beta/" || entries[0].Title != "Beta" {
		t.Fatalf("unexpected backlinks %#v", entries)
	}
	if entries[0].Description != "Beta summary" || !entries[0].Date.Equal(beta.Date) {
		t.Fatalf("expected source description and date, got %#v", entries[0])
	}
	want := []xref.Link{{Source: "/posts/beta/", Target: "/posts/alpha/"}}
	if !reflect.DeepEqual(graph.Links, want) {
		t.Fatalf("unexpected links %#v", graph.Links)
	}
	if len(graph.Nodes) != 2 {
		t.Fatalf("expected both posts as nodes, got %#v", graph.Nodes)
	}
}

func TestResolveSkipsUnresolvedTitles(t *testing.T) {
	beta := item(content.TypeNote, "beta", "Beta", "Links to [[Nonexistent]] and [[nothing|here]].")
	items := []*content.Item{beta}

	backlinks, graph := xref.Resolve(items, xref.BuildTitleIndex(items))
	if backlinks.Len() != 0 || len(graph.Links) != 0 {
		t.Fatalf("expected no backlinks or edges, got %d/%d", backlinks.Len(), len(graph.Links))
	}
	if len(graph.Nodes) != 1 || graph.Nodes[0].URL != "/notes/beta/" {
		t.Fatalf("expected unlinked node, got %#v", graph.Nodes)
	}
}

func TestResolveIsCaseInsensitiveAndKeepsDuplicates(t *testing.T) {
	target := item(content.TypePage, "about", "About Me", "")
	source := item(content.TypeNote, "n", "Note", "[[about me]] then [[ABOUT ME|again]]")
	items := []*content.Item{source, target}

	backlinks, graph := xref.Resolve(items, xref.BuildTitleIndex(items))
	if got := len(backlinks.Get("/about/")); got != 2 {
		t.Fatalf("expected duplicate backlinks, got %d", got)
	}
	if len(graph.Links) != 2 {
		t.Fatalf("expected duplicate edges, got %#v", graph.Links)
	}
}

func TestResolveDraftsAndIneligibleTypes(t *testing.T) {
	draft := item(content.TypePost, "wip", "Work In Progress", "[[Alpha]]")
	draft.Draft = true
	alpha := item(content.TypePost, "alpha", "Alpha", "")
	photo := item(content.TypePhoto, "sky", "Sky", "[[Alpha]]")
	items := []*content.Item{draft, alpha, photo}

	index := xref.BuildTitleIndex(items)
	if url, ok := index.ResolveTitle("work in progress"); !ok || url != "/posts/wip/" {
		t.Fatalf("expected drafts indexed under published url, got %q %v", url, ok)
	}
	if _, ok := index.ResolveTitle("Sky"); ok {
		t.Fatalf("photos must not be indexed")
	}

	backlinks, graph := xref.Resolve(items, index)
	entries := backlinks.Get("/posts/alpha/")
	if len(entries) != 1 || entries[0].URL != "/posts/wip/" {
		t.Fatalf("expected only the draft post as a source, got %#v", entries)
	}
	if len(graph.Nodes) != 1 || graph.Nodes[0].ID != "/posts/alpha/" {
		t.Fatalf("expected drafts excluded from nodes, got %#v", graph.Nodes)
	}
}

func TestTitleIndexLastWriteWins(t *testing.T) {
	first := item(content.TypePost, "first", "Shared", "")
	second := item(content.TypeNote, "second", "shared", "")
	index := xref.BuildTitleIndex([]*content.Item{first, second})

	if url, _ := index.ResolveTitle("SHARED"); url != "/notes/second/" {
		t.Fatalf("expected later item to win, got %q", url)
	}
	if index.Len() != 1 {
		t.Fatalf("expected one entry, got %d", index.Len())
	}
}

func TestBacklinksMarshalKeepsOrder(t *testing.T) {
	backlinks := xref.NewBacklinks()
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	backlinks.Add("/z/", xref.BacklinkEntry{Title: "One", URL: "/one/", Date: date})
	backlinks.Add("/a/", xref.BacklinkEntry{Title: "Two", URL: "/two/", Date: date})
	backlinks.Add("/z/", xref.BacklinkEntry{Title: "Three", URL: "/three/", Date: date})

	raw, err := json.Marshal(backlinks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(raw)
	if strings.Index(encoded, `"/z/"`) > strings.Index(encoded, `"/a/"`) {
		t.Fatalf("expected insertion order, got %s", encoded)
	}

	var decoded map[string][]xref.BacklinkEntry
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded["/z/"]) != 2 || decoded["/z/"][1].Title != "Three" {
		t.Fatalf("unexpected decoded payload %#v", decoded)
	}
}

func TestGraphJSONShape(t *testing.T) {
	a := item(content.TypePost, "a", "A", "[[B]]")
	b := item(content.TypePost, "b", "B", "")
	items := []*content.Item{a, b}
	_, graph := xref.Resolve(items, xref.BuildTitleIndex(items))

	raw, err := json.Marshal(graph)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"nodes":[{"id":"/posts/a/","title":"A","url":"/posts/a/","type":"post"},{"id":"/posts/b/","title":"B","url":"/posts/b/","type":"post"}],"links":[{"source":"/posts/a/","target":"/posts/b/"}]}`
	if string(raw) != want {
		t.Fatalf("unexpected graph json\nwant %s\ngot  %s", want, raw)
	}
}

func TestRelatedRanksBySharedTags(t *testing.T) {
	base := item(content.TypePost, "base", "Base", "")
	base.Tags = []string{"ai", "design", "systems"}
	two := item(content.TypePost, "two", "Two", "")
	two.Tags = []string{"design", "systems"}
	oneOld := item(content.TypePost, "one-old", "One Old", "")
	oneOld.Tags = []string{"ai"}
	oneOld.Date = oneOld.Date.AddDate(0, -1, 0)
	oneNew := item(content.TypePost, "one-new", "One New", "")
	oneNew.Tags = []string{"design"}
	none := item(content.TypePost, "none", "None", "")
	none.Tags = []string{"travel"}
	hidden := item(content.TypePost, "hidden", "Hidden", "")
	hidden.Tags = []string{"ai", "design", "systems"}
	hidden.Draft = true
	note := item(content.TypeNote, "note", "Note", "")
	note.Tags = []string{"ai", "design", "systems"}

	xref.Related([]*content.Item{base, two, oneOld, oneNew, none, hidden, note}, 2)

	var got []string
	for _, ref := range base.Related {
		got = append(got, ref.Slug)
	}
	if !reflect.DeepEqual(got, []string{"two", "one-new"}) {
		t.Fatalf("unexpected related order %v", got)
	}
	if base.Related[0].Score != 2 || base.Related[0].URL != "/posts/two/" {
		t.Fatalf("unexpected first ref %#v", base.Related[0])
	}
	if none.Related != nil || hidden.Related != nil || note.Related != nil {
		t.Fatalf("expected no related for unmatched, draft or non-post items")
	}
}
