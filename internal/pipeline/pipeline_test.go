package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-contentkit/internal/pipeline"
	"github.com/goliatone/go-contentkit/internal/validation"
	"github.com/goliatone/go-contentkit/pkg/testsupport"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/2026-02-01-alpha.md": {Data: []byte(`---
title: Alpha
date: 2026-02-01
description: First post
tags: [systems, design]
---
Alpha body.
`)},
		"posts/2026-02-03-beta.md": {Data: []byte(`---
title: Beta
date: 2026-02-03
description: Second post
tags: [systems]
---
See [[Alpha]] for more and [[Nonexistent]] too.

## Details

> [!aside] Worth noting
`)},
		"notes/gamma.md": {Data: []byte(`---
title: Gamma
date: 2026-02-04
draft: true
---
Back to [[beta|the beta post]].
`)},
		"books/tale/book.yaml":                 {Data: []byte("title: Tale\nauthor: Someone\ndate: 2026-01-01\n")},
		"books/tale/chapters/Chapter 1/one.md": {Data: []byte("# Opening\n\nLinks [[Alpha]].\n")},
	}
}

func TestBuildProducesCrossReferencedResult(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{FS: contentFS(), Books: true, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := p.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.BuildID == uuid.Nil {
		t.Fatalf("expected build id")
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected books excluded from items, got %d", len(result.Items))
	}

	var order []string
	for _, item := range result.Items {
		order = append(order, item.Slug)
	}
	if strings.Join(order, ",") != "gamma,alpha,beta" {
		t.Fatalf("expected items in path order, got %v", order)
	}

	alpha, beta := result.Items[1], result.Items[2]
	if !strings.Contains(beta.HTML, `<a href="/posts/alpha/" class="wikilink">Alpha</a>`) {
		t.Fatalf("expected resolved wikilink, got %s", beta.HTML)
	}
	if !strings.Contains(beta.HTML, "wikilink-broken") {
		t.Fatalf("expected broken link marker, got %s", beta.HTML)
	}
	if !strings.Contains(beta.HTML, `class="callout callout-aside"`) {
		t.Fatalf("expected callout, got %s", beta.HTML)
	}
	if len(beta.TOC) != 1 || beta.TOC[0].Text != "Details" {
		t.Fatalf("unexpected toc %#v", beta.TOC)
	}

	alphaLinks := result.Backlinks.Get("/posts/alpha/")
	if len(alphaLinks) != 1 || alphaLinks[0].URL != "/posts/beta/" {
		t.Fatalf("unexpected alpha backlinks %#v", alphaLinks)
	}
	betaLinks := result.Backlinks.Get("/posts/beta/")
	if len(betaLinks) != 1 || betaLinks[0].URL != "/notes/gamma/" {
		t.Fatalf("expected draft note to link under its published url, got %#v", betaLinks)
	}
	if len(result.Graph.Links) != 2 || len(result.Graph.Nodes) != 2 {
		t.Fatalf("unexpected graph %#v", result.Graph)
	}

	if len(alpha.Related) != 1 || alpha.Related[0].Slug != "beta" {
		t.Fatalf("expected related post by shared tag, got %#v", alpha.Related)
	}

	if len(result.Books) != 1 || len(result.Books[0].Chapters) != 1 {
		t.Fatalf("expected one book with one chapter, got %#v", result.Books)
	}
	chapter := result.Books[0].Chapters[0]
	if chapter.Title != "Opening" || !strings.Contains(chapter.HTML, `href="/posts/alpha/"`) {
		t.Fatalf("unexpected chapter %#v", chapter)
	}

	var steps []string
	for _, timing := range result.Timings {
		steps = append(steps, timing.Step)
	}
	if strings.Join(steps, ",") != "collect,validate,index,render,books,xref" {
		t.Fatalf("unexpected steps %v", steps)
	}
}

func TestBuildStopsOnValidationErrors(t *testing.T) {
	files := fstest.MapFS{
		"posts/a.md": {Data: []byte("---\ndate: 2026-01-01\ndescription: d\n---\nA\n")},
		"posts/b.md": {Data: []byte("---\ndate: 2026-01-01\ndescription: d\n---\nB\n")},
		"posts/c.md": {Data: []byte("---\ndate: 2026-01-01\ndescription: d\n---\nC\n")},
	}
	p, err := pipeline.New(pipeline.Config{FS: files})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := p.Build(context.Background())
	if result != nil {
		t.Fatalf("expected no result on validation failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	issues := validation.Issues(err)
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	for _, issue := range issues {
		if issue.Message != "missing or invalid title" {
			t.Fatalf("unexpected issue %v", issue)
		}
	}
}

func TestBuildHonoursCancellation(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{FS: contentFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Build(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRequiresContentSource(t *testing.T) {
	if _, err := pipeline.New(pipeline.Config{}); !errors.Is(err, pipeline.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestBuildFromDisk(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "pages/about.md", "---\ntitle: About\ndate: 2026-01-01\n---\nHello.\n")

	p, err := pipeline.New(pipeline.Config{ContentDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := p.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].URL() != "/about/" {
		t.Fatalf("unexpected items %#v", result.Items)
	}
	if len(result.Graph.Nodes) != 1 {
		t.Fatalf("expected page node, got %#v", result.Graph.Nodes)
	}
}

func TestValidateSkipsRendering(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{FS: contentFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items, err := p.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, item := range items {
		if item.HTML != "" {
			t.Fatalf("expected no rendering, got html for %s", item.Slug)
		}
	}
}
