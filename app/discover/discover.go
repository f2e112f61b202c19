package discover

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/districtnews/ingest/app/urlutil"
)

// articlePatterns classify anchor hrefs that look like article permalinks.
// Order matters only for logging; a link matching any pattern qualifies.
var articlePatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"dated-path", regexp.MustCompile(`/\d{4}/\d{2}/`)},
	{"section-path", regexp.MustCompile(`/(article|news|story|post|actualite)s?/`)},
	{"numeric-slug", regexp.MustCompile(`-\d{3,}(/|$)`)},
	{"slug-html", regexp.MustCompile(`-\d+\.html$`)},
}

// rejectRe filters listing and navigation pages that the patterns above would
// otherwise let through.
var rejectRe = regexp.MustCompile(`/(category|categories|tag|tags|author|page|search)(/|$)`)

// Finder extracts candidate article links from a publisher homepage.
type Finder struct{}

func NewFinder() *Finder {
	return &Finder{}
}

// Run scans the homepage HTML for anchors whose hrefs look like article
// permalinks on the same host. Results keep document order, are deduplicated
// by canonical URL, and are capped at maxLinks. Unparseable HTML yields nil.
func (f *Finder) Run(pageHTML []byte, homepage string, maxLinks int) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return true
		}

		abs := urlutil.Absolute(href, homepage)
		if !urlutil.SameHost(abs, homepage) {
			return true
		}
		if !looksLikeArticle(abs) {
			return true
		}

		key := urlutil.Normalize(abs)
		if seen[key] {
			return true
		}
		seen[key] = true

		links = append(links, abs)
		return maxLinks <= 0 || len(links) < maxLinks
	})

	return links
}

func looksLikeArticle(url string) bool {
	lower := strings.ToLower(url)
	if rejectRe.MatchString(lower) {
		return false
	}
	for _, pattern := range articlePatterns {
		if pattern.re.MatchString(lower) {
			return true
		}
	}
	return false
}
