// Package content defines the typed content model shared by every pipeline
// stage, together with the canonical URL scheme and text statistics.
package content

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// SchemaVersion is the only frontmatter schema version accepted.
const SchemaVersion = 1

// Type identifies the kind of a content item.
type Type string

const (
	TypePost    Type = "post"
	TypeNote    Type = "note"
	TypePhoto   Type = "photo"
	TypePage    Type = "page"
	TypeSoul    Type = "soul"
	TypeSkills  Type = "skills"
	TypeChapter Type = "chapter"
)

// CollectedTypes lists the types accepted for files in the content tree.
// Chapters are collected through books instead.
var CollectedTypes = []Type{TypePost, TypeNote, TypePhoto, TypePage, TypeSoul, TypeSkills}

// Valid reports whether t is one of CollectedTypes.
func (t Type) Valid() bool {
	for _, candidate := range CollectedTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Linkable reports whether items of this type take part in wikilink
// resolution and the knowledge graph.
func (t Type) Linkable() bool {
	return t == TypePost || t == TypeNote || t == TypePage
}

// InferType maps a file path onto a content type using its directory.
func InferType(filePath string) Type {
	dir := path.Dir(strings.ReplaceAll(filePath, "\\", "/"))
	for _, candidate := range []struct {
		segment string
		typ     Type
	}{
		{"posts", TypePost},
		{"notes", TypeNote},
		{"photos", TypePhoto},
		{"pages", TypePage},
	} {
		if dir == candidate.segment || strings.HasSuffix(dir, "/"+candidate.segment) || strings.Contains(dir, "/"+candidate.segment+"/") || strings.HasPrefix(dir, candidate.segment+"/") {
			return candidate.typ
		}
	}
	return TypePage
}

// RawItem is a collected file before validation.
type RawItem struct {
	FilePath    string
	FrontMatter map[string]any
	Body        string
}

// TOCEntry is an h2 or h3 heading of a rendered body.
type TOCEntry = interfaces.TOCEntry

// RelatedRef points at another item sharing tags with the owner.
type RelatedRef struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Score       int    `json:"score"`
}

// CoAuthor credits a collaborator on a post.
type CoAuthor struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Note  string `json:"note,omitempty"`
}

// PostFields carries the optional metadata of long-form posts.
type PostFields struct {
	HeroImage    string     `json:"heroImage,omitempty"`
	CanonicalURL string     `json:"canonicalUrl,omitempty"`
	Series       string     `json:"series,omitempty"`
	NoIndex      bool       `json:"noIndex,omitempty"`
	Featured     bool       `json:"featured,omitempty"`
	CoAuthors    []CoAuthor `json:"coAuthors,omitempty"`
	Tension      string     `json:"tension,omitempty"`
	Questions    []string   `json:"questions,omitempty"`
	Constraints  []string   `json:"constraints,omitempty"`
	Tools        []string   `json:"tools,omitempty"`
	Preface      string     `json:"preface,omitempty"`
}

// NoteFields carries the optional metadata of short notes.
type NoteFields struct {
	HeroImage string `json:"heroImage,omitempty"`
}

// PhotoFields carries photo metadata. Image and Alt are required.
type PhotoFields struct {
	Image       string `json:"image"`
	Alt         string `json:"alt"`
	Observation string `json:"observation,omitempty"`
	Location    string `json:"location,omitempty"`
	Camera      string `json:"camera,omitempty"`
	Settings    string `json:"settings,omitempty"`
}

// ChapterFields ties a chapter to its book.
type ChapterFields struct {
	BookSlug      string `json:"bookSlug"`
	ChapterNumber int    `json:"chapterNumber"`
	ChapterTitle  string `json:"chapterTitle"`
}

// Item is a validated content item. HTML, TOC and Related stay empty until the
// render and cross-reference phases fill them in.
type Item struct {
	Slug          string         `json:"slug"`
	Type          Type           `json:"type"`
	SchemaVersion int            `json:"schemaVersion"`
	Title         string         `json:"title"`
	Date          time.Time      `json:"date"`
	Updated       *time.Time     `json:"updated,omitempty"`
	Draft         bool           `json:"draft"`
	Tags          []string       `json:"tags"`
	Description   string         `json:"description,omitempty"`
	Body          string         `json:"bodyMarkdown"`
	HTML          string         `json:"html"`
	WordCount     int            `json:"wordCount"`
	ReadingTime   int            `json:"readingTime"`
	TOC           []TOCEntry     `json:"toc,omitempty"`
	Related       []RelatedRef   `json:"relatedPosts,omitempty"`
	FilePath      string         `json:"filepath"`
	FrontMatter   map[string]any `json:"-"`

	Post    *PostFields    `json:"post,omitempty"`
	Note    *NoteFields    `json:"note,omitempty"`
	Photo   *PhotoFields   `json:"photo,omitempty"`
	Chapter *ChapterFields `json:"chapter,omitempty"`
}

// URL returns the public route of the item.
func (i *Item) URL() string {
	bookSlug := ""
	if i.Chapter != nil {
		bookSlug = i.Chapter.BookSlug
	}
	return URLFor(i.Type, i.Slug, bookSlug, i.Draft)
}

// Book groups the chapters collected from a book folder.
type Book struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Genre       string    `json:"genre,omitempty"`
	Status      string    `json:"status,omitempty"`
	Date        time.Time `json:"date"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Chapters    []*Item   `json:"chapters"`
	FilePath    string    `json:"filepath"`
}

// URL returns the public route of the book index.
func (b *Book) URL() string {
	return "/books/" + b.Slug + "/"
}
