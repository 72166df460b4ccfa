package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/identity"
	"github.com/goliatone/go-contentkit/internal/pipeline"
	"github.com/goliatone/go-contentkit/internal/store"
	"github.com/goliatone/go-contentkit/internal/xref"
	"github.com/goliatone/go-contentkit/pkg/testsupport"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, testsupport.SQLiteMemoryDSN(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult() *pipeline.Result {
	date := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	alpha := &content.Item{Type: content.TypePost, Slug: "alpha", Title: "Alpha", Date: date, Tags: []string{"systems"}, Body: "Alpha", HTML: "<p>Alpha</p>\n", WordCount: 1, ReadingTime: 1}
	beta := &content.Item{Type: content.TypeNote, Slug: "beta", Title: "Beta", Date: date, Body: "[[Alpha]] [[Alpha]]"}
	chapter := &content.Item{
		Type: content.TypeChapter, Slug: "chapter-1", Title: "Opening", Date: date,
		Chapter: &content.ChapterFields{BookSlug: "tale", ChapterNumber: 1, ChapterTitle: "Opening"},
	}

	items := []*content.Item{alpha, beta}
	index := xref.BuildTitleIndex(items)
	backlinks, graph := xref.Resolve(items, index)
	return &pipeline.Result{
		BuildID:   uuid.New(),
		Items:     items,
		Books:     []*content.Book{{Slug: "tale", Title: "Tale", Chapters: []*content.Item{chapter}}},
		Backlinks: backlinks,
		Graph:     graph,
		Titles:    index,
	}
}

func TestExportWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	exporter := store.NewExporter(db, nil)
	result := sampleResult()

	summary, err := exporter.Export(ctx, result)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if summary.Items != 3 || summary.Books != 1 || summary.Backlinks != 2 || summary.Links != 2 {
		t.Fatalf("unexpected summary %#v", summary)
	}

	records, err := exporter.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	urls := []string{records[0].URL, records[1].URL, records[2].URL}
	if urls[0] != "/books/tale/chapter-1/" || urls[1] != "/notes/beta/" || urls[2] != "/posts/alpha/" {
		t.Fatalf("unexpected urls %v", urls)
	}

	alpha, err := exporter.ItemByURL(ctx, "/posts/alpha/")
	if err != nil {
		t.Fatalf("ItemByURL: %v", err)
	}
	if alpha.ID != identity.ContentUUID("post", "alpha", "") || alpha.BuildID != result.BuildID {
		t.Fatalf("unexpected ids %s %s", alpha.ID, alpha.BuildID)
	}
	if len(alpha.Tags) != 1 || alpha.Tags[0] != "systems" || alpha.HTML != "<p>Alpha</p>\n" {
		t.Fatalf("unexpected record %#v", alpha)
	}
	if alpha.PublishedOn != "2026-02-03" || alpha.BookID != uuid.Nil {
		t.Fatalf("unexpected published day or book id %q %s", alpha.PublishedOn, alpha.BookID)
	}

	chapter, err := exporter.ItemByURL(ctx, "/books/tale/chapter-1/")
	if err != nil {
		t.Fatalf("ItemByURL chapter: %v", err)
	}
	var books []store.BookRecord
	if err := db.NewSelect().Model(&books).Scan(ctx); err != nil {
		t.Fatalf("select books: %v", err)
	}
	if len(books) != 1 || books[0].ID != identity.BookUUID("tale") || books[0].ChapterCount != 1 || books[0].URL != "/books/tale/" {
		t.Fatalf("unexpected books %#v", books)
	}
	if chapter.BookID != books[0].ID {
		t.Fatalf("expected chapter to reference its book, got %s", chapter.BookID)
	}

	var backlinks []store.BacklinkRecord
	if err := db.NewSelect().Model(&backlinks).Order("position ASC").Scan(ctx); err != nil {
		t.Fatalf("select backlinks: %v", err)
	}
	if len(backlinks) != 2 || backlinks[0].TargetURL != "/posts/alpha/" || backlinks[1].SourceURL != "/notes/beta/" {
		t.Fatalf("unexpected backlinks %#v", backlinks)
	}
}

func TestExportReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	exporter := store.NewExporter(db, nil)

	if _, err := exporter.Export(ctx, sampleResult()); err != nil {
		t.Fatalf("first export: %v", err)
	}
	second := sampleResult()
	if _, err := exporter.Export(ctx, second); err != nil {
		t.Fatalf("second export: %v", err)
	}

	count, err := db.NewSelect().Model((*store.LinkRecord)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected previous rows dropped, got %d links", count)
	}
	records, err := exporter.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	for _, record := range records {
		if record.BuildID != second.BuildID {
			t.Fatalf("expected only second build rows, got %s", record.BuildID)
		}
	}
}

func TestExportKeepsPreviousSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	exporter := store.NewExporter(db, nil)

	first := sampleResult()
	if _, err := exporter.Export(ctx, first); err != nil {
		t.Fatalf("first export: %v", err)
	}

	broken := sampleResult()
	duplicate := *broken.Items[0]
	broken.Items = append(broken.Items, &duplicate)
	summary, err := exporter.Export(ctx, broken)
	if err == nil {
		t.Fatal("expected duplicate item ids to fail the export")
	}
	if summary != (store.Summary{}) {
		t.Fatalf("expected empty summary on failure, got %#v", summary)
	}

	records, err := exporter.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected previous snapshot to survive, got %d items", len(records))
	}
	for _, record := range records {
		if record.BuildID != first.BuildID {
			t.Fatalf("expected first build rows, got %s", record.BuildID)
		}
	}
	count, err := db.NewSelect().Model((*store.BacklinkRecord)(nil)).Count(ctx)
	if err != nil || count != 2 {
		t.Fatalf("expected previous backlinks to survive, got %d %v", count, err)
	}
}

func TestExporterRequiresDatabase(t *testing.T) {
	if _, err := store.NewExporter(nil, nil).Export(context.Background(), sampleResult()); !errors.Is(err, store.ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := store.Open("oracle", "dsn"); !errors.Is(err, store.ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}
