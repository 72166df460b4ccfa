package validation_test

import (
	"reflect"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/validation"
)

func rawPost(path, slug string, overrides map[string]any) content.RawItem {
	meta := map[string]any{
		"title":       "A Post",
		"date":        "2026-02-03",
		"type":        "post",
		"slug":        slug,
		"description": "Summary",
	}
	for key, value := range overrides {
		if value == nil {
			delete(meta, key)
			continue
		}
		meta[key] = value
	}
	return content.RawItem{FilePath: path, FrontMatter: meta, Body: "Body text here."}
}

func messages(issues []validation.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}

func TestValidateAggregatesAcrossItems(t *testing.T) {
	items := []content.RawItem{
		rawPost("posts/a.md", "a", map[string]any{"title": nil}),
		rawPost("posts/b.md", "b", map[string]any{"title": nil}),
		rawPost("posts/c.md", "c", map[string]any{"title": nil}),
	}

	validated, err := validation.New().Validate(items)
	if err == nil {
		t.Fatalf("expected validation to fail")
	}
	if validated != nil {
		t.Fatalf("expected no items on failure")
	}

	issues := validation.Issues(err)
	if len(issues) != 3 {
		t.Fatalf("expected exactly 3 issues, got %d: %v", len(issues), issues)
	}
	for i, path := range []string{"posts/a.md", "posts/b.md", "posts/c.md"} {
		if issues[i].FilePath != path || issues[i].Message != "missing or invalid title" {
			t.Fatalf("unexpected issue %d: %#v", i, issues[i])
		}
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateReportsEveryCheck(t *testing.T) {
	items := []content.RawItem{
		{FilePath: "photos/p.md", FrontMatter: map[string]any{
			"title":         42,
			"date":          "not a date",
			"type":          "photo",
			"slug":          "p",
			"updated":       "soon",
			"schemaVersion": 2,
			"tags":          []any{"systems", 7, "bogus", "alsobad"},
		}},
		{FilePath: "misc/x.md", FrontMatter: map[string]any{
			"title": "X",
			"date":  "2026-01-01",
			"type":  "recipe",
			"slug":  "  ",
			"tags":  "systems",
		}},
	}

	_, err := validation.New().Validate(items)
	got := messages(validation.Issues(err))
	want := []string{
		"missing or invalid title",
		"missing or invalid date",
		"photos require image",
		"photos require alt text",
		"invalid updated date",
		`unsupported schemaVersion "2" (expected 1)`,
		"tags must be strings",
		`unknown tag "bogus" (not in canonical taxonomy)`,
		`unknown tag "alsobad" (not in canonical taxonomy)`,
		`invalid type "recipe" (must be one of: post, note, photo, page, soul, skills)`,
		"missing or blank slug",
		"tags must be an array",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected messages\nwant: %q\ngot:  %q", want, got)
	}
}

func TestValidateFlagsSecondDuplicate(t *testing.T) {
	items := []content.RawItem{
		rawPost("posts/first.md", "same", nil),
		rawPost("posts/second.md", "same", nil),
		{FilePath: "notes/same.md", FrontMatter: map[string]any{
			"title": "Note", "date": "2026-01-01", "type": "note", "slug": "same",
		}},
	}

	_, err := validation.New().Validate(items)
	issues := validation.Issues(err)
	if len(issues) != 1 {
		t.Fatalf("expected one duplicate issue, got %v", issues)
	}
	if issues[0].FilePath != "posts/second.md" || issues[0].Message != `duplicate slug "same" for type "post"` {
		t.Fatalf("unexpected issue %#v", issues[0])
	}
}

func TestValidatePostRequiresDescription(t *testing.T) {
	_, err := validation.New().Validate([]content.RawItem{
		rawPost("posts/a.md", "a", map[string]any{"description": ""}),
	})
	if got := messages(validation.Issues(err)); !reflect.DeepEqual(got, []string{"posts require description"}) {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestValidateSuccessNormalisesItems(t *testing.T) {
	body := strings.Repeat("word ", 400)
	items := []content.RawItem{
		{FilePath: "posts/2026-02-03-my-post.md", Body: body, FrontMatter: map[string]any{
			"title":         "My Post",
			"date":          "2026-02-03",
			"updated":       "2026-02-05T10:00:00Z",
			"type":          "post",
			"slug":          "my-post",
			"description":   "About things",
			"schemaVersion": 1,
			"tags":          []any{"Systems", "engineering", "building", "philosophy"},
			"featured":      true,
			"questions":     []any{"Why?", "How?"},
			"coAuthors":     []any{"Ada"},
		}},
		{FilePath: "photos/bridge.md", FrontMatter: map[string]any{
			"title": "Bridge", "date": "2026-01-10", "type": "photo", "slug": "bridge",
			"image": "/img/bridge.jpg", "alt": "A bridge at dusk", "camera": "X100",
		}},
	}

	validated, err := validation.New().Validate(items)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(validated) != 2 || validated[0].Slug != "my-post" || validated[1].Slug != "bridge" {
		t.Fatalf("expected input order preserved, got %#v", validated)
	}

	post := validated[0]
	if !reflect.DeepEqual(post.Tags, []string{"building", "mental-models", "systems"}) {
		t.Fatalf("unexpected tags %v", post.Tags)
	}
	if post.WordCount != 400 || post.ReadingTime != 2 {
		t.Fatalf("unexpected stats %d/%d", post.WordCount, post.ReadingTime)
	}
	if post.Updated == nil || post.Updated.Day() != 5 {
		t.Fatalf("expected updated date, got %v", post.Updated)
	}
	if post.URL() != "/posts/my-post/" {
		t.Fatalf("unexpected url %q", post.URL())
	}
	if post.Post == nil || !post.Post.Featured || len(post.Post.Questions) != 2 || post.Post.CoAuthors[0].Name != "Ada" {
		t.Fatalf("unexpected post fields %#v", post.Post)
	}
	if post.HTML != "" {
		t.Fatalf("validation must not render html")
	}

	photo := validated[1]
	if photo.Photo == nil || photo.Photo.Image != "/img/bridge.jpg" || photo.Photo.Camera != "X100" {
		t.Fatalf("unexpected photo fields %#v", photo.Photo)
	}
	if photo.ReadingTime != 1 {
		t.Fatalf("expected minimum reading time, got %d", photo.ReadingTime)
	}
}

func TestValidateAcceptsDraftFlag(t *testing.T) {
	validated, err := validation.New().Validate([]content.RawItem{
		rawPost("posts/wip.md", "wip", map[string]any{"draft": true}),
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !validated[0].Draft || validated[0].URL() != "/drafts/wip/" {
		t.Fatalf("unexpected draft item %#v", validated[0])
	}
}

func TestIssuesOnForeignError(t *testing.T) {
	if validation.Issues(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if validation.Issues(goerrors.Wrap(errFake{}, goerrors.CategoryCommand, "x")) != nil {
		t.Fatalf("expected nil for unrelated error")
	}
}

type errFake struct{}

func (errFake) Error() string { return "fake" }

func TestErrorMessageListsIssues(t *testing.T) {
	err := &validation.Error{Issues: []validation.Issue{
		{FilePath: "a.md", Message: "missing or invalid title"},
		{FilePath: "b.md", Message: "missing or invalid date"},
	}}
	want := "2 validation error(s)\n  a.md: missing or invalid title\n  b.md: missing or invalid date"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
