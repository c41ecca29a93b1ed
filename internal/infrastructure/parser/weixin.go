package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WxCrawler/internal/ports"
)

var styleURLSplit = regexp.MustCompile(`[()]`)

// WeixinExtractor reads article cards from mp.weixin.qq.com profile
// pages and author/body from article detail pages.
type WeixinExtractor struct {
	root string
}

var (
	_ ports.FeedExtractor   = (*WeixinExtractor)(nil)
	_ ports.DetailExtractor = (*WeixinExtractor)(nil)
)

// NewWeixinExtractor builds the publisher markup strategy; root is the
// publisher origin detail links are resolved against.
func NewWeixinExtractor(root string) *WeixinExtractor {
	return &WeixinExtractor{root: strings.TrimSuffix(root, "/")}
}

// Cards returns the feed's article cards in document order.
func (e *WeixinExtractor) Cards(doc *goquery.Document) []ports.FeedCard {
	var cards []ports.FeedCard
	doc.Find(".weui_msg_card_list .weui_msg_card").Each(func(_ int, sel *goquery.Selection) {
		cards = append(cards, &weixinCard{sel: sel, root: e.root})
	})
	return cards
}

// Author scans the author-candidate elements and keeps the last one
// without an id attribute; the decorated siblings carrying ids are not
// the author.
func (e *WeixinExtractor) Author(doc *goquery.Document) string {
	var author string
	doc.Find("#meta_content em.rich_media_meta.rich_media_meta_text").Each(func(_ int, el *goquery.Selection) {
		if _, ok := el.Attr("id"); ok {
			return
		}
		author = strings.TrimSpace(el.Text())
	})
	return author
}

// Body returns the article's full body markup, or false when the
// content container is absent.
func (e *WeixinExtractor) Body(doc *goquery.Document) (string, bool) {
	content := doc.Find("#js_content").First()
	if content.Length() == 0 {
		return "", false
	}
	html, err := content.Html()
	if err != nil {
		return "", false
	}
	return html, true
}

// weixinCard evaluates card fields lazily against the underlying
// selection.
type weixinCard struct {
	sel  *goquery.Selection
	root string
}

func (c *weixinCard) MessageID() (string, error) {
	id, ok := c.sel.Find(".weui_media_box").First().Attr("msgid")
	if !ok {
		return "", fmt.Errorf("msgid: %w", ErrMissingElement)
	}
	return id, nil
}

func (c *weixinCard) Title() (string, error) {
	title := c.sel.Find(".weui_media_title").First()
	if title.Length() == 0 {
		return "", fmt.Errorf("title: %w", ErrMissingElement)
	}
	return strings.TrimSpace(title.Text()), nil
}

func (c *weixinCard) HasOriginMark() bool {
	return c.sel.Find(".weui_media_title span#copyright_logo").Length() > 0
}

// PostURL digs the cover image out of the inline style attribute. The
// value sits between the url() parentheses; anything but exactly two
// segments after the split means no cover.
func (c *weixinCard) PostURL() string {
	style, ok := c.sel.Find(".weui_media_box span.weui_media_hd").First().Attr("style")
	if !ok {
		return ""
	}
	parts := styleURLSplit.Split(style, -1)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

func (c *weixinCard) DetailURL() (string, error) {
	href, ok := c.sel.Find(".weui_media_title").First().Attr("hrefs")
	if !ok {
		return "", fmt.Errorf("detail link: %w", ErrMissingElement)
	}
	return c.root + href, nil
}

func (c *weixinCard) Digest() string {
	return strings.TrimSpace(c.sel.Find(".weui_media_desc").First().Text())
}

func (c *weixinCard) PubDateText() (string, error) {
	extra := c.sel.Find(".weui_media_extra_info").First()
	if extra.Length() == 0 {
		return "", fmt.Errorf("publish date: %w", ErrMissingElement)
	}
	return strings.TrimSpace(extra.Text()), nil
}
