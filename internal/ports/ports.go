package ports

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"WxCrawler/internal/domain"
)

// DocumentFetcher turns a URL into a parsed hypertext document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// AccountRepository persists discovered publisher accounts.
type AccountRepository interface {
	FindByHandle(ctx context.Context, handle string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (int64, error)
	UpdateLastPublish(ctx context.Context, account *domain.Account) error
	Count(ctx context.Context) (int, error)
}

// ArticleRepository persists feed articles for dedup and enrichment.
type ArticleRepository interface {
	CountByMsgID(ctx context.Context, msgID string) (int, error)
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	UpdateEnrichment(ctx context.Context, id int64, author, content string) error
}

// AccountResult is one search-result box extracted from an aggregator
// page. LastPublishRaw carries the embedded script literal untouched;
// the discoverer runs it through timeparse.
type AccountResult struct {
	Avatar         string
	Nickname       string
	Handle         string
	Description    string
	VerifiedName   string
	LastPublishRaw string
	ProfileURL     string
}

// ResultExtractor understands the aggregator's search-result markup.
type ResultExtractor interface {
	Accounts(doc *goquery.Document) ([]AccountResult, error)
	NextPageURL(doc *goquery.Document) (string, bool)
}

// FeedCard exposes the fields of one article card in a profile feed.
// Detail fields are evaluated lazily so dedup-skipped cards never touch
// them; swapping the publisher markup means swapping the card, not the
// crawl/dedup/sequence logic.
type FeedCard interface {
	MessageID() (string, error)
	Title() (string, error)
	HasOriginMark() bool
	PostURL() string
	DetailURL() (string, error)
	Digest() string
	PubDateText() (string, error)
}

// FeedExtractor understands the publisher's profile-feed markup.
type FeedExtractor interface {
	Cards(doc *goquery.Document) []FeedCard
}

// DetailExtractor understands the publisher's article-detail markup.
type DetailExtractor interface {
	Author(doc *goquery.Document) string
	Body(doc *goquery.Document) (string, bool)
}

// Scheduler controls when crawl runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Notifier publishes run reports to an external channel.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}
