package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WxCrawler/internal/domain"
	"WxCrawler/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher serves canned HTML keyed by exact URL.
type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type fakeAccounts struct {
	byHandle map[string]*domain.Account
	nextID   int64
	inserts  int
	updates  int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byHandle: map[string]*domain.Account{}}
}

func (f *fakeAccounts) FindByHandle(_ context.Context, handle string) (*domain.Account, error) {
	if stored, ok := f.byHandle[handle]; ok {
		account := *stored
		return &account, nil
	}
	return nil, nil
}

func (f *fakeAccounts) Insert(_ context.Context, account *domain.Account) (int64, error) {
	f.nextID++
	f.inserts++
	stored := *account
	stored.ID = f.nextID
	f.byHandle[account.Handle] = &stored
	return f.nextID, nil
}

func (f *fakeAccounts) UpdateLastPublish(_ context.Context, account *domain.Account) error {
	stored, ok := f.byHandle[account.Handle]
	if !ok {
		return fmt.Errorf("unknown handle %s", account.Handle)
	}
	stored.Description = account.Description
	stored.LastPublish = account.LastPublish
	stored.UpdatedAt = account.UpdatedAt
	f.updates++
	return nil
}

func (f *fakeAccounts) Count(_ context.Context) (int, error) {
	return len(f.byHandle), nil
}

type fakeArticles struct {
	rows     []domain.Article
	nextID   int64
	enriched map[int64][2]string
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{enriched: map[int64][2]string{}}
}

func (f *fakeArticles) CountByMsgID(_ context.Context, msgID string) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.MsgID == msgID {
			count++
		}
	}
	return count, nil
}

func (f *fakeArticles) Insert(_ context.Context, article *domain.Article) (int64, error) {
	f.nextID++
	stored := *article
	stored.ID = f.nextID
	f.rows = append(f.rows, stored)
	return f.nextID, nil
}

func (f *fakeArticles) UpdateEnrichment(_ context.Context, id int64, author, content string) error {
	f.enriched[id] = [2]string{author, content}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Author = author
			f.rows[i].Content = content
		}
	}
	return nil
}

// fakeCard is a FeedCard with plain field values.
type fakeCard struct {
	msgID     string
	title     string
	origin    bool
	postURL   string
	detailURL string
	digest    string
	dateText  string
}

func (c fakeCard) MessageID() (string, error)   { return c.msgID, nil }
func (c fakeCard) Title() (string, error)       { return c.title, nil }
func (c fakeCard) HasOriginMark() bool          { return c.origin }
func (c fakeCard) PostURL() string              { return c.postURL }
func (c fakeCard) DetailURL() (string, error)   { return c.detailURL, nil }
func (c fakeCard) Digest() string               { return c.digest }
func (c fakeCard) PubDateText() (string, error) { return c.dateText, nil }

// fakeFeedExtractor hands out the same card list for every document,
// like an unchanged feed page between crawls.
type fakeFeedExtractor struct {
	cards []ports.FeedCard
}

func (f *fakeFeedExtractor) Cards(*goquery.Document) []ports.FeedCard {
	return f.cards
}

// fakeDetail reads author/body from simplified detail markup.
type fakeDetail struct{}

func (fakeDetail) Author(doc *goquery.Document) string {
	return doc.Find("author").Text()
}

func (fakeDetail) Body(doc *goquery.Document) (string, bool) {
	sel := doc.Find("content")
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

// fakeResults replays scripted pages of discovery results.
type fakeResults struct {
	pages []resultPage
	call  int
}

type resultPage struct {
	results []ports.AccountResult
	next    string
}

func (f *fakeResults) Accounts(*goquery.Document) ([]ports.AccountResult, error) {
	if f.call >= len(f.pages) {
		return nil, fmt.Errorf("unexpected page request %d", f.call)
	}
	page := f.pages[f.call]
	f.call++
	return page.results, nil
}

func (f *fakeResults) NextPageURL(*goquery.Document) (string, bool) {
	// Accounts has already advanced the cursor for this page.
	page := f.pages[f.call-1]
	return page.next, page.next != ""
}

type fakeNotifier struct {
	reports []string
}

func (f *fakeNotifier) PublishReport(_ context.Context, report string) error {
	f.reports = append(f.reports, report)
	return nil
}
