package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WxCrawler/internal/ports"
)

// ErrMissingElement reports markup that lacks an element the extraction
// contract requires.
var ErrMissingElement = errors.New("expected element missing")

const (
	descriptionLabel = "功能介绍："
	verifiedLabel    = "微信认证："
	lastPublishLabel = "最近文章："
)

// SogouExtractor reads account summaries out of Sogou Weixin search
// result pages.
type SogouExtractor struct{}

var _ ports.ResultExtractor = (*SogouExtractor)(nil)

// NewSogouExtractor builds the aggregator markup strategy.
func NewSogouExtractor() *SogouExtractor {
	return &SogouExtractor{}
}

// Accounts extracts one AccountResult per result box, in document order.
// A box missing a required element aborts the whole page.
func (e *SogouExtractor) Accounts(doc *goquery.Document) ([]ports.AccountResult, error) {
	var (
		results    []ports.AccountResult
		extractErr error
	)

	doc.Find(".news-list2 > li").EachWithBreak(func(i int, box *goquery.Selection) bool {
		result, err := parseResultBox(box)
		if err != nil {
			extractErr = fmt.Errorf("result box %d: %w", i, err)
			return false
		}
		results = append(results, result)
		return true
	})

	if extractErr != nil {
		return nil, extractErr
	}
	return results, nil
}

func parseResultBox(box *goquery.Selection) (ports.AccountResult, error) {
	var result ports.AccountResult

	avatar, ok := box.Find(".img-box img").First().Attr("src")
	if !ok {
		return result, fmt.Errorf("avatar: %w", ErrMissingElement)
	}
	result.Avatar = avatar

	title := box.Find(".txt-box .tit").First()
	if title.Length() == 0 {
		return result, fmt.Errorf("title: %w", ErrMissingElement)
	}
	result.Nickname = strings.ReplaceAll(strings.TrimSpace(title.Text()), " ", "")

	handle := box.Find(".txt-box .info label[name='em_weixinhao']").First()
	if handle.Length() == 0 {
		return result, fmt.Errorf("handle: %w", ErrMissingElement)
	}
	result.Handle = strings.TrimSpace(handle.Text())

	box.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		label := strings.TrimSpace(dl.Find("dt").First().Text())
		dd := dl.Find("dd").First()
		switch label {
		case descriptionLabel:
			result.Description = strings.TrimSpace(dd.Text())
		case verifiedLabel:
			result.VerifiedName = strings.TrimSpace(dd.Text())
		case lastPublishLabel:
			if script, err := dd.Find("span script").First().Html(); err == nil {
				result.LastPublishRaw = script
			}
		}
	})

	profile, ok := title.Find("a[uigs]").First().Attr("href")
	if !ok {
		return result, fmt.Errorf("profile link: %w", ErrMissingElement)
	}
	result.ProfileURL = profile

	return result, nil
}

// NextPageURL returns the relative href of the aggregator's next-page
// control. Absence of the control terminates discovery.
func (e *SogouExtractor) NextPageURL(doc *goquery.Document) (string, bool) {
	return doc.Find("#pagebar_container #sogou_next").First().Attr("href")
}
