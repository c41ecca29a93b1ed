package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"WxCrawler/internal/domain"
	"WxCrawler/internal/ports"
	"WxCrawler/internal/timeparse"
)

// Discoverer walks paginated search results, upserts every publisher
// account it finds and crawls each account's profile feed on the way.
type Discoverer struct {
	fetcher    ports.DocumentFetcher
	accounts   ports.AccountRepository
	extractor  ports.ResultExtractor
	feed       *FeedCrawler
	searchRoot string
	logger     *slog.Logger
}

// NewDiscoverer wires the discovery traversal.
func NewDiscoverer(fetcher ports.DocumentFetcher, accounts ports.AccountRepository,
	extractor ports.ResultExtractor, feed *FeedCrawler, searchRoot string, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		fetcher:    fetcher,
		accounts:   accounts,
		extractor:  extractor,
		feed:       feed,
		searchRoot: searchRoot,
		logger:     logger,
	}
}

// Discover traverses every result page for the keyword string. There is
// no page cap: traversal ends only when the aggregator stops supplying
// a next-page control, so a host that always returns one never stops.
func (d *Discoverer) Discover(ctx context.Context, keywords string) error {
	pageURL := d.searchRoot + "?query=" + url.QueryEscape(keywords) +
		"&_sug_type_=&s_from=input&_sug_=y&type=1&ie=utf8"

	for {
		doc, err := d.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("fetch result page: %w", err)
		}

		results, err := d.extractor.Accounts(doc)
		if err != nil {
			return fmt.Errorf("extract accounts: %w", err)
		}

		for _, result := range results {
			account, err := d.upsert(ctx, result)
			if err != nil {
				return err
			}
			if err := d.feed.CrawlFeed(ctx, account, result.ProfileURL); err != nil {
				return fmt.Errorf("crawl feed %s: %w", account.Handle, err)
			}
		}

		next, ok := d.extractor.NextPageURL(doc)
		if !ok {
			return nil
		}
		pageURL = d.searchRoot + next
	}
}

// upsert inserts the account on first sight; later sightings refresh
// only description, last-publish and the update timestamp.
func (d *Discoverer) upsert(ctx context.Context, result ports.AccountResult) (*domain.Account, error) {
	var lastPublish *time.Time
	if t, ok := timeparse.EpochLiteral(result.LastPublishRaw); ok {
		lastPublish = &t
	}

	account, err := d.accounts.FindByHandle(ctx, result.Handle)
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", result.Handle, err)
	}

	now := time.Now()
	if account == nil {
		account = &domain.Account{
			Nickname:     result.Nickname,
			Handle:       result.Handle,
			Description:  result.Description,
			VerifiedName: result.VerifiedName,
			Avatar:       result.Avatar,
			Active:       1,
			LastPublish:  lastPublish,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		id, err := d.accounts.Insert(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("insert account %s: %w", result.Handle, err)
		}
		account.ID = id
		d.logger.Info("account discovered", "handle", result.Handle, "nickname", result.Nickname)
		return account, nil
	}

	account.Description = result.Description
	account.LastPublish = lastPublish
	account.UpdatedAt = now
	if err := d.accounts.UpdateLastPublish(ctx, account); err != nil {
		return nil, fmt.Errorf("update account %s: %w", result.Handle, err)
	}
	d.logger.Debug("account refreshed", "handle", result.Handle)
	return account, nil
}
