package extract

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/districtnews/ingest/app/textutil"
	"github.com/districtnews/ingest/app/urlutil"
)

// MinBodyLength is the quality gate: pages yielding less usable text than
// this are treated as non-articles and skipped.
const MinBodyLength = 100

// containerSelectors are tried in order when locating the article body.
// The list covers the common CMS themes of the publishers ingested.
var containerSelectors = []string{
	"article",
	".article",
	".article-content",
	".post",
	".post-content",
	".entry-content",
	".news-content",
	".story-content",
	".node__content",
	".field--name-body",
	"#content",
	"main",
}

const boilerplateSelector = "script, style, noscript, iframe, form, .advert, .ads, .share, .social, .related, nav, header, footer"

// Article is the structured result of pulling one publisher page apart.
type Article struct {
	Title       string
	Body        string
	Description string
	ImageURL    string
	PublishedAt *time.Time
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts the article carried by a publisher page. It returns nil when
// the page yields no body that clears the quality gate; extraction failures
// are expected on listing pages and paywalls, so there is no error return.
func (e *Extractor) Run(pageHTML []byte, pageURL string) *Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		slog.Debug("Page is not parseable HTML", "url", pageURL, "error", err)
		return nil
	}

	article := &Article{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		ImageURL:    extractImage(doc, pageURL),
		PublishedAt: extractPublishedAt(doc),
	}

	article.Body = extractBody(doc)
	if article.Body == "" {
		article.Body = readabilityBody(pageHTML)
	}
	if len(article.Body) < MinBodyLength && len(article.Description) >= MinBodyLength {
		article.Body = article.Description
	}

	if len(article.Body) < MinBodyLength {
		slog.Debug("Page failed body quality gate", "url", pageURL, "body_length", len(article.Body))
		return nil
	}

	return article
}

func extractTitle(doc *goquery.Document) string {
	for _, sel := range []string{"meta[property='og:title']", "meta[name='twitter:title']"} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if title := textutil.NormalizeWhitespace(content); title != "" {
				return title
			}
		}
	}
	if title := textutil.NormalizeWhitespace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if title := textutil.NormalizeWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return "Untitled"
}

func extractDescription(doc *goquery.Document) string {
	for _, sel := range []string{
		"meta[property='og:description']",
		"meta[name='description']",
		"meta[name='twitter:description']",
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if desc := textutil.NormalizeWhitespace(content); desc != "" {
				return desc
			}
		}
	}
	return ""
}

func extractImage(doc *goquery.Document, pageURL string) string {
	for _, sel := range []string{"meta[property='og:image']", "meta[name='twitter:image']"} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return urlutil.Absolute(strings.TrimSpace(content), pageURL)
		}
	}
	for _, sel := range []string{"figure img", "article img", "img"} {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			return urlutil.Absolute(strings.TrimSpace(src), pageURL)
		}
	}
	return ""
}

func extractPublishedAt(doc *goquery.Document) *time.Time {
	var raw string
	if content, ok := doc.Find("meta[property='article:published_time']").First().Attr("content"); ok {
		raw = content
	}
	if raw == "" {
		if content, ok := doc.Find("meta[name='pubdate']").First().Attr("content"); ok {
			raw = content
		}
	}
	if raw == "" {
		node := doc.Find("[itemprop='datePublished']").First()
		if content, ok := node.Attr("content"); ok {
			raw = content
		} else {
			raw = node.Text()
		}
	}
	if raw == "" {
		if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			raw = datetime
		}
	}

	raw = strings.TrimSpace(raw)
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

// extractBody walks the container selectors and keeps the first one holding
// at least three substantial paragraphs. When no container qualifies it falls
// back to every paragraph on the page with a higher length bar.
func extractBody(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	for _, sel := range containerSelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		paragraphs := collectParagraphs(container, 25)
		if len(paragraphs) >= 3 {
			return strings.Join(paragraphs, "\n\n")
		}
	}

	if paragraphs := collectParagraphs(doc.Selection, 30); len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}
	return ""
}

func collectParagraphs(sel *goquery.Selection, minLength int) []string {
	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := textutil.NormalizeWhitespace(p.Text())
		if len(text) > minLength {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

func readabilityBody(pageHTML []byte) string {
	article, err := readability.FromReader(bytes.NewReader(pageHTML), nil)
	if err != nil {
		return ""
	}
	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return textutil.NormalizeWhitespace(buf.String())
}
