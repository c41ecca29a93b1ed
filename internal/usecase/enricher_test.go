package usecase

import (
	"context"
	"testing"
	"time"

	"WxCrawler/internal/domain"
)

func TestEnrichGapTolerance(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"http://detail/1": "<author>First</author><content>Body 1</content>",
		"http://detail/2": "<author>Second</author>",
		"http://detail/3": "<author>Third</author><content>Body 3</content>",
	}}
	articles := newFakeArticles()
	enricher := NewEnricher(fetcher, articles, fakeDetail{}, discardLogger())

	now := time.Now()
	batch := []domain.Article{
		{MsgID: "m1", Seq: 1, URL: "http://detail/1", CreatedAt: now, UpdatedAt: now},
		{MsgID: "m2", Seq: 1, URL: "http://detail/2", CreatedAt: now, UpdatedAt: now},
		{MsgID: "m3", Seq: 1, URL: "http://detail/3", CreatedAt: now, UpdatedAt: now},
	}
	if err := enricher.Enrich(context.Background(), batch); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}

	if len(articles.rows) != 3 {
		t.Fatalf("expected 3 inserted rows, got %d", len(articles.rows))
	}
	if len(articles.enriched) != 2 {
		t.Fatalf("expected 2 enriched rows, got %d", len(articles.enriched))
	}
	if got := articles.enriched[1]; got != [2]string{"First", "Body 1"} {
		t.Fatalf("unexpected enrichment for row 1: %v", got)
	}
	if _, ok := articles.enriched[2]; ok {
		t.Fatal("row 2 must stay summary-only")
	}
	if got := articles.enriched[3]; got != [2]string{"Third", "Body 3"} {
		t.Fatalf("unexpected enrichment for row 3: %v", got)
	}
}

func TestEnrichDetailFetchFailureAborts(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"http://detail/1": "<content>Body 1</content>",
	}}
	articles := newFakeArticles()
	enricher := NewEnricher(fetcher, articles, fakeDetail{}, discardLogger())

	batch := []domain.Article{
		{MsgID: "m1", Seq: 1, URL: "http://detail/1"},
		{MsgID: "m2", Seq: 1, URL: "http://detail/unreachable"},
	}
	if err := enricher.Enrich(context.Background(), batch); err == nil {
		t.Fatal("expected the failing detail fetch to abort the pass")
	}

	// The summary insert commits before its detail fetch, so both rows
	// exist even though the second one never got enriched.
	if len(articles.rows) != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", len(articles.rows))
	}
	if len(articles.enriched) != 1 {
		t.Fatalf("expected 1 enriched row, got %d", len(articles.enriched))
	}
}

func TestEnrichEmptyBatch(t *testing.T) {
	t.Parallel()

	articles := newFakeArticles()
	enricher := NewEnricher(&fakeFetcher{}, articles, fakeDetail{}, discardLogger())
	if err := enricher.Enrich(context.Background(), nil); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(articles.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(articles.rows))
	}
}
