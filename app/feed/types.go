package feed

import (
	"time"
)

// Entry is one candidate parsed from an RSS/Atom document. Entries live for
// a single pipeline run; feed order (assumed newest-first) is preserved.
type Entry struct {
	Title       string
	Link        string // absolute URL
	Description string
	ImageURL    string
	PublishedAt *time.Time // UTC, nil when the feed carries no parseable date
}
