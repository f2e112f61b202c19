package database

import (
	"time"
)

// Article represents an article record in the database
type Article struct {
	ID          int64
	Title       string
	Summary     string
	ImageURL    string
	SourceURL   string
	SourceName  string
	Topic       string
	Categories  []string
	Headline    string
	Subheadline string
	PublishedAt *time.Time
	CreatedAt   time.Time
}
