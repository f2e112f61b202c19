// Package textutil holds the plain-text helpers shared by the dedupe and
// derived-field stages: HTML stripping, whitespace collapsing and word-level
// truncation.
package textutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`</?[^>]+>`)
)

// StripHTML removes script/style blocks, remaining tags and entities,
// returning whitespace-collapsed plain text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = scriptRe.ReplaceAllString(s, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return NormalizeWhitespace(s)
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TrimToWords returns at most max words of text, joined by single spaces.
func TrimToWords(text string, max int) string {
	if text == "" || max <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ")
}

// FirstNWords is TrimToWords under the name the derived-field code reads
// naturally at call sites picking headline words.
func FirstNWords(text string, n int) string {
	return TrimToWords(text, n)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EnsureSentenceEnd trims a trailing ellipsis and guarantees the text ends
// with terminal punctuation. Empty input stays empty.
func EnsureSentenceEnd(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimSuffix(t, "...")
	t = strings.TrimSuffix(t, "…")
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	switch t[len(t)-1] {
	case '.', '!', '?':
		return t
	}
	return t + "."
}
