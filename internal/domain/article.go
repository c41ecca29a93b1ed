package domain

import "time"

// Article is one publication extracted from an account's profile feed.
// A single message may bundle several articles, so identity is the
// composite (MsgID, Seq). Author and Content arrive in a second pass.
type Article struct {
	ID        int64
	AccountID int64
	MsgID     string
	Seq       int
	Title     string
	Origin    bool // syndication-verified original content
	PubDate   time.Time
	URL       string
	PostURL   string
	Digest    string
	Author    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
