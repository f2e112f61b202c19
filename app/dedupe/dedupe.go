package dedupe

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/districtnews/ingest/app/urlutil"
)

// Store is the slice of the article repository the dedup engine needs.
type Store interface {
	ExistsBySourceURL(url string) (bool, error)
	GetRecentTitles(limit int) ([]string, error)
}

// Engine answers "have we already got this article" two ways: exact match on
// canonical source URL, and fuzzy match on title token overlap against a
// recent window. Store errors make both checks answer "not a duplicate";
// the UNIQUE constraint on source_url is the backstop for that case.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) IsDuplicateURL(url string) bool {
	exists, err := e.store.ExistsBySourceURL(urlutil.Normalize(url))
	if err != nil {
		slog.Warn("URL dedup check failed, treating as new", "url", url, "error", err)
		return false
	}
	return exists
}

// IsDuplicateTitle reports whether title overlaps an existing title within
// the recent window at or above threshold.
func (e *Engine) IsDuplicateTitle(title string, threshold float64, window int) bool {
	titles, err := e.store.GetRecentTitles(window)
	if err != nil {
		slog.Warn("Title dedup check failed, treating as new", "title", title, "error", err)
		return false
	}

	for _, existing := range titles {
		if ratio := TokenOverlapRatio(title, existing); ratio >= threshold {
			slog.Debug("Title matched recent article", "title", title, "existing", existing, "ratio", ratio)
			return true
		}
	}
	return false
}

// Tokenize lowercases s and splits it into alphanumeric runs.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenOverlapRatio measures title similarity as the shared token count
// divided by the smaller title's token count, so a headline that is a strict
// subset of a longer one still scores 1.0. Result is in [0, 1]; two empty
// titles score 0.
func TokenOverlapRatio(a, b string) float64 {
	setA := tokenSet(Tokenize(a))
	setB := tokenSet(Tokenize(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	smaller, larger := setA, setB
	if len(setB) < len(setA) {
		smaller, larger = setB, setA
	}

	shared := 0
	for token := range smaller {
		if larger[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(smaller))
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}
