package feed

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/districtnews/ingest/app/fetch"
)

// feedProbePaths are the endpoints tried, in order, when a source has no
// configured feed URL. Most publishers expose one of the first few.
var feedProbePaths = []string{
	"/rss",
	"/rss.xml",
	"/feed",
	"/feed.xml",
	"/feeds",
	"/index.xml",
	"/atom.xml",
}

var feedMarkerRe = regexp.MustCompile(`(?i)<rss|<feed|<item|<entry`)

// Prober locates and parses a source's feed, preferring the configured feed
// URL and falling back to probing well-known endpoints off the homepage.
type Prober struct {
	client *fetch.Client
	parser *Parser
}

func NewProber(client *fetch.Client, parser *Parser) *Prober {
	return &Prober{client: client, parser: parser}
}

// Run returns feed entries for the source, or nil when no feed is reachable.
// A missing feed is an expected outcome, not an error; the caller falls back
// to homepage link discovery.
func (p *Prober) Run(ctx context.Context, feedURL, homepage string, timeout time.Duration) []Entry {
	if feedURL != "" {
		if entries := p.tryFeed(ctx, feedURL, homepage, timeout); len(entries) > 0 {
			return entries
		}
	}

	base := strings.TrimRight(homepage, "/")
	for _, path := range feedProbePaths {
		if entries := p.tryFeed(ctx, base+path, homepage, timeout); len(entries) > 0 {
			return entries
		}
	}

	return nil
}

func (p *Prober) tryFeed(ctx context.Context, url, baseURL string, timeout time.Duration) []Entry {
	data, err := p.client.Get(ctx, url, timeout)
	if err != nil {
		slog.Debug("Feed probe failed", "url", url, "error", err)
		return nil
	}

	// Cheap sniff before handing the document to the XML parser; probe
	// endpoints frequently answer 200 with an HTML error page.
	if !feedMarkerRe.Match(data) {
		return nil
	}

	return p.parser.Run(data, baseURL)
}
