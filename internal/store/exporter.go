// Package store exports a build snapshot into SQL tables for downstream
// tools. Every export replaces the previous snapshot.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/dates"
	"github.com/goliatone/go-contentkit/internal/identity"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/pipeline"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// ErrDatabaseRequired is returned when the exporter has no database.
var ErrDatabaseRequired = errors.New("store: database not configured")

// Summary counts the rows written by an export.
type Summary struct {
	Items     int
	Books     int
	Backlinks int
	Links     int
}

// Exporter writes build results with bun.
type Exporter struct {
	db     *bun.DB
	items  repository.Repository[*ItemRecord]
	logger interfaces.Logger
}

// NewExporter builds an exporter over db.
func NewExporter(db *bun.DB, logger interfaces.Logger) *Exporter {
	if logger == nil {
		logger = logging.NoOp()
	}
	exporter := &Exporter{db: db, logger: logger}
	if db != nil {
		exporter.items = NewItemRepository(db)
	}
	return exporter
}

// Export replaces the snapshot tables with items (book chapters included),
// books, backlinks and graph edges in a single transaction. A failed export
// leaves the previous snapshot untouched.
func (e *Exporter) Export(ctx context.Context, result *pipeline.Result) (Summary, error) {
	if e.db == nil {
		return Summary{}, ErrDatabaseRequired
	}
	if result == nil {
		return Summary{}, errors.New("store: nil build result")
	}

	items := exportedItems(result)
	books := bookRecords(result)
	backlinks := backlinkRecords(result)
	links := linkRecords(result)

	err := e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := resetSchema(ctx, tx); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := e.items.CreateTx(ctx, tx, itemRecord(result, item)); err != nil {
				return fmt.Errorf("store: insert item %s: %w", item.FilePath, err)
			}
		}
		if len(books) > 0 {
			if _, err := tx.NewInsert().Model(&books).Exec(ctx); err != nil {
				return fmt.Errorf("store: insert books: %w", err)
			}
		}
		if len(backlinks) > 0 {
			if _, err := tx.NewInsert().Model(&backlinks).Exec(ctx); err != nil {
				return fmt.Errorf("store: insert backlinks: %w", err)
			}
		}
		if len(links) > 0 {
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return fmt.Errorf("store: insert graph links: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		e.logger.Error("store.export.failed", "build_id", result.BuildID.String(), "error", err)
		return Summary{}, err
	}

	summary := Summary{
		Items:     len(items),
		Books:     len(books),
		Backlinks: len(backlinks),
		Links:     len(links),
	}
	e.logger.Info("store.export.completed",
		"build_id", result.BuildID.String(),
		"items", summary.Items,
		"books", summary.Books,
		"backlinks", summary.Backlinks,
		"links", summary.Links,
	)
	return summary, nil
}

// Items lists exported items ordered by URL.
func (e *Exporter) Items(ctx context.Context) ([]*ItemRecord, error) {
	if e.items == nil {
		return nil, ErrDatabaseRequired
	}
	records, _, err := e.items.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].URL < records[j].URL })
	return records, nil
}

// ItemByURL loads one exported item.
func (e *Exporter) ItemByURL(ctx context.Context, url string) (*ItemRecord, error) {
	if e.items == nil {
		return nil, ErrDatabaseRequired
	}
	return e.items.GetByIdentifier(ctx, url)
}

func resetSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range models() {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("store: drop table: %w", err)
		}
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			return fmt.Errorf("store: create table: %w", err)
		}
	}
	return nil
}

func exportedItems(result *pipeline.Result) []*content.Item {
	items := append([]*content.Item(nil), result.Items...)
	for _, book := range result.Books {
		items = append(items, book.Chapters...)
	}
	return items
}

func itemRecord(result *pipeline.Result, item *content.Item) *ItemRecord {
	bookSlug := ""
	if item.Chapter != nil {
		bookSlug = item.Chapter.BookSlug
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	record := &ItemRecord{
		ID:          identity.ContentUUID(string(item.Type), item.Slug, bookSlug),
		BuildID:     result.BuildID,
		Type:        string(item.Type),
		Slug:        item.Slug,
		BookSlug:    bookSlug,
		Title:       item.Title,
		URL:         item.URL(),
		Description: item.Description,
		Date:        item.Date,
		PublishedOn: dates.FormatISO(item.Date),
		Updated:     item.Updated,
		Draft:       item.Draft,
		Tags:        tags,
		WordCount:   item.WordCount,
		ReadingTime: item.ReadingTime,
		HTML:        item.HTML,
		FilePath:    item.FilePath,
	}
	if bookSlug != "" {
		record.BookID = identity.BookUUID(bookSlug)
	}
	return record
}

func bookRecords(result *pipeline.Result) []BookRecord {
	records := make([]BookRecord, 0, len(result.Books))
	for _, book := range result.Books {
		if book == nil {
			continue
		}
		record := BookRecord{
			ID:           identity.BookUUID(book.Slug),
			BuildID:      result.BuildID,
			Slug:         book.Slug,
			Title:        book.Title,
			Author:       book.Author,
			Description:  book.Description,
			Genre:        book.Genre,
			Status:       book.Status,
			URL:          book.URL(),
			Date:         book.Date,
			ChapterCount: len(book.Chapters),
			FilePath:     book.FilePath,
		}
		if !book.Date.IsZero() {
			record.PublishedOn = dates.FormatISO(book.Date)
		}
		records = append(records, record)
	}
	return records
}

func backlinkRecords(result *pipeline.Result) []BacklinkRecord {
	var records []BacklinkRecord
	for _, target := range result.Backlinks.URLs() {
		for i, entry := range result.Backlinks.Get(target) {
			records = append(records, BacklinkRecord{
				ID:          identity.LinkUUID("backlink", entry.URL, target, i),
				TargetURL:   target,
				SourceURL:   entry.URL,
				Title:       entry.Title,
				Description: entry.Description,
				Date:        entry.Date,
				Position:    i,
			})
		}
	}
	return records
}

func linkRecords(result *pipeline.Result) []LinkRecord {
	if result.Graph == nil {
		return nil
	}
	records := make([]LinkRecord, 0, len(result.Graph.Links))
	for i, link := range result.Graph.Links {
		records = append(records, LinkRecord{
			ID:       identity.LinkUUID("graph", link.Source, link.Target, i),
			Source:   link.Source,
			Target:   link.Target,
			Position: i,
		})
	}
	return records
}
