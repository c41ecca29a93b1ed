package domain

import "time"

// Account is a public publisher account discovered through the search
// aggregator. The handle is globally unique; once a row exists only its
// description, last-publish and update timestamps change.
type Account struct {
	ID           int64
	Nickname     string
	Handle       string
	Description  string
	VerifiedName string
	Avatar       string
	Active       int
	LastPublish  *time.Time // nil when the aggregator showed no recent article
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
