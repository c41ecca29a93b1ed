package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"WxCrawler/internal/domain"
	"WxCrawler/internal/ports"
)

// Enricher persists a crawled batch and back-fills author and body from
// each article's detail page. Stage one (the summary insert) commits
// even when stage two finds nothing to fill.
type Enricher struct {
	fetcher  ports.DocumentFetcher
	articles ports.ArticleRepository
	detail   ports.DetailExtractor
	logger   *slog.Logger
}

// NewEnricher wires the detail pass.
func NewEnricher(fetcher ports.DocumentFetcher, articles ports.ArticleRepository,
	detail ports.DetailExtractor, logger *slog.Logger) *Enricher {
	return &Enricher{
		fetcher:  fetcher,
		articles: articles,
		detail:   detail,
		logger:   logger,
	}
}

// Enrich inserts each summary row in order, then fetches the detail
// page and updates author and body. A missing content container leaves
// the row summary-only and moves on to the next article.
func (e *Enricher) Enrich(ctx context.Context, batch []domain.Article) error {
	for i := range batch {
		article := &batch[i]

		id, err := e.articles.Insert(ctx, article)
		if err != nil {
			return fmt.Errorf("insert article %s/%d: %w", article.MsgID, article.Seq, err)
		}
		article.ID = id

		doc, err := e.fetcher.Fetch(ctx, article.URL)
		if err != nil {
			return fmt.Errorf("fetch article %s: %w", article.URL, err)
		}

		author := e.detail.Author(doc)
		body, ok := e.detail.Body(doc)
		if !ok {
			e.logger.Warn("content container missing, row left summary-only",
				"msg_id", article.MsgID, "seq", article.Seq)
			continue
		}

		if err := e.articles.UpdateEnrichment(ctx, id, author, body); err != nil {
			return fmt.Errorf("enrich article %d: %w", id, err)
		}
		article.Author = author
		article.Content = body
	}
	return nil
}
