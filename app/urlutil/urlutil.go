// Package urlutil provides URL canonicalization for dedup keys and
// href resolution against a page base.
package urlutil

import (
	"net/url"
	"strings"
)

// Normalize converts a raw URL into its canonical dedup key: fragment and
// query are dropped, the whole string is lowercased, and a single trailing
// slash is removed. The function is total: unparseable input falls back to
// a lowercased, trimmed copy of the raw string.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""

	normalized := strings.ToLower(u.String())
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = normalized[:len(normalized)-1]
	}

	return normalized
}

// Absolute resolves href against base. Unresolvable input is returned as-is,
// matching the skip-and-continue posture of the pipeline.
func Absolute(href, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}

	return baseURL.ResolveReference(ref).String()
}

// SameHost reports whether two URLs share a hostname, ignoring scheme.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Hostname() != "" && strings.EqualFold(ua.Hostname(), ub.Hostname())
}
