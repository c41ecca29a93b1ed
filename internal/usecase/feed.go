package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"WxCrawler/internal/domain"
	"WxCrawler/internal/ports"
	"WxCrawler/internal/timeparse"
)

// seqCursor numbers cards within a feed batch. A message id already
// seen in the batch keeps the counter climbing; only a first-seen id
// resets it to 1. Non-consecutive runs of the same id therefore climb
// past each other instead of restarting, which is what keeps stored
// (msg_id, seq) pairs unique.
type seqCursor struct {
	seen map[string]bool
	seq  int
}

func (c seqCursor) next(msgID string) seqCursor {
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	key := strings.ToLower(msgID)
	if c.seen[key] {
		c.seq++
	} else {
		c.seq = 1
	}
	c.seen[key] = true
	return c
}

// FeedCrawler extracts article summaries from an account's profile
// feed, numbers them, drops already-known messages and hands the new
// batch to the enricher.
type FeedCrawler struct {
	fetcher   ports.DocumentFetcher
	articles  ports.ArticleRepository
	extractor ports.FeedExtractor
	enricher  *Enricher
	logger    *slog.Logger
}

// NewFeedCrawler wires the per-account feed pass.
func NewFeedCrawler(fetcher ports.DocumentFetcher, articles ports.ArticleRepository,
	extractor ports.FeedExtractor, enricher *Enricher, logger *slog.Logger) *FeedCrawler {
	return &FeedCrawler{
		fetcher:   fetcher,
		articles:  articles,
		extractor: extractor,
		enricher:  enricher,
		logger:    logger,
	}
}

// CrawlFeed processes one account's profile feed end to end: summary
// extraction first, then persistence and enrichment of the whole batch.
func (f *FeedCrawler) CrawlFeed(ctx context.Context, account *domain.Account, feedURL string) error {
	doc, err := f.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	var batch []domain.Article
	cursor := seqCursor{}
	for _, card := range f.extractor.Cards(doc) {
		msgID, err := card.MessageID()
		if err != nil {
			return err
		}
		// The cursor advances before the dedup check so skipped cards
		// still count toward their message's numbering.
		cursor = cursor.next(msgID)

		title, err := card.Title()
		if err != nil {
			return err
		}
		origin := card.HasOriginMark()
		if origin {
			title = stripOriginBadge(title)
		}

		known, err := f.articles.CountByMsgID(ctx, msgID)
		if err != nil {
			return fmt.Errorf("count articles %s: %w", msgID, err)
		}
		if known > 0 {
			f.logger.Warn("message already stored, skipping", "msg_id", msgID, "title", title)
			continue
		}

		detailURL, err := card.DetailURL()
		if err != nil {
			return err
		}
		dateText, err := card.PubDateText()
		if err != nil {
			return err
		}
		pubDate, err := timeparse.Date(dateText)
		if err != nil {
			return err
		}

		now := time.Now()
		batch = append(batch, domain.Article{
			AccountID: account.ID,
			MsgID:     msgID,
			Seq:       cursor.seq,
			Title:     title,
			Origin:    origin,
			PubDate:   pubDate,
			URL:       detailURL,
			PostURL:   card.PostURL(),
			Digest:    card.Digest(),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return f.enricher.Enrich(ctx, batch)
}

// stripOriginBadge removes the two-rune badge glyph the feed prepends
// to original-content titles.
func stripOriginBadge(title string) string {
	runes := []rune(title)
	if len(runes) < 2 {
		return title
	}
	return string(runes[2:])
}
