package feed

import (
	"bytes"
	"cmp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/districtnews/ingest/app/textutil"
	"github.com/districtnews/ingest/app/urlutil"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS or Atom document into entries, resolving relative links
// and images against baseURL and normalizing publish dates to UTC. Malformed
// XML yields an empty slice, never a panic; downstream dedup handles any
// duplicates the feed itself carries.
func (p *Parser) Run(data []byte, baseURL string) []Entry {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil || parsed == nil {
		return nil
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		link := strings.TrimSpace(cmp.Or(item.Link, item.GUID))
		if link == "" {
			continue
		}

		entry := Entry{
			Title:       textutil.NormalizeWhitespace(item.Title),
			Link:        urlutil.Absolute(link, baseURL),
			Description: textutil.StripHTML(cmp.Or(item.Description, item.Content)),
			PublishedAt: entryPublishedAt(item),
		}

		if img := entryImage(item); img != "" {
			entry.ImageURL = urlutil.Absolute(img, baseURL)
		}

		entries = append(entries, entry)
	}

	return entries
}

func entryPublishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		return &t
	}
	if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		return &t
	}
	raw := cmp.Or(item.Published, item.Updated)
	if raw == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	t := parsed.UTC()
	return &t
}

// entryImage picks the first usable image: explicit item image, then the
// first enclosure, then media RSS content/thumbnail extensions.
func entryImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	return ""
}
