package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemRecord is one exported content item or book chapter.
type ItemRecord struct {
	bun.BaseModel `bun:"table:content_items,alias:ci"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	BuildID     uuid.UUID  `bun:"build_id,notnull,type:uuid" json:"build_id"`
	Type        string     `bun:"type,notnull" json:"type"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	BookID      uuid.UUID  `bun:"book_id,nullzero,type:uuid" json:"book_id,omitempty"`
	BookSlug    string     `bun:"book_slug" json:"book_slug,omitempty"`
	Title       string     `bun:"title,notnull" json:"title"`
	URL         string     `bun:"url,notnull" json:"url"`
	Description string     `bun:"description" json:"description,omitempty"`
	Date        time.Time  `bun:"date,notnull" json:"date"`
	PublishedOn string     `bun:"published_on,notnull" json:"published_on"`
	Updated     *time.Time `bun:"updated,nullzero" json:"updated,omitempty"`
	Draft       bool       `bun:"draft,notnull,default:false" json:"draft"`
	Tags        []string   `bun:"tags,type:jsonb" json:"tags"`
	WordCount   int        `bun:"word_count,notnull,default:0" json:"word_count"`
	ReadingTime int        `bun:"reading_time,notnull,default:0" json:"reading_time"`
	HTML        string     `bun:"html" json:"html"`
	FilePath    string     `bun:"file_path" json:"file_path"`
}

// BookRecord is one collected book. Its chapters reference it by BookID.
type BookRecord struct {
	bun.BaseModel `bun:"table:books,alias:bk"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	BuildID      uuid.UUID `bun:"build_id,notnull,type:uuid" json:"build_id"`
	Slug         string    `bun:"slug,notnull,unique" json:"slug"`
	Title        string    `bun:"title,notnull" json:"title"`
	Author       string    `bun:"author" json:"author"`
	Description  string    `bun:"description" json:"description,omitempty"`
	Genre        string    `bun:"genre" json:"genre,omitempty"`
	Status       string    `bun:"status" json:"status,omitempty"`
	URL          string    `bun:"url,notnull" json:"url"`
	Date         time.Time `bun:"date" json:"date"`
	PublishedOn  string    `bun:"published_on" json:"published_on,omitempty"`
	ChapterCount int       `bun:"chapter_count,notnull,default:0" json:"chapter_count"`
	FilePath     string    `bun:"file_path" json:"file_path"`
}

// BacklinkRecord is one backlink entry under a target URL.
type BacklinkRecord struct {
	bun.BaseModel `bun:"table:backlinks,alias:bl"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	TargetURL   string    `bun:"target_url,notnull" json:"target_url"`
	SourceURL   string    `bun:"source_url,notnull" json:"source_url"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description,omitempty"`
	Date        time.Time `bun:"date" json:"date"`
	Position    int       `bun:"position,notnull,default:0" json:"position"`
}

// LinkRecord is one knowledge graph edge.
type LinkRecord struct {
	bun.BaseModel `bun:"table:graph_links,alias:gl"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Source   string    `bun:"source,notnull" json:"source"`
	Target   string    `bun:"target,notnull" json:"target"`
	Position int       `bun:"position,notnull,default:0" json:"position"`
}

func models() []any {
	return []any{
		(*ItemRecord)(nil),
		(*BookRecord)(nil),
		(*BacklinkRecord)(nil),
		(*LinkRecord)(nil),
	}
}
