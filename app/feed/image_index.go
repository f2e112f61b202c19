package feed

import (
	"strings"

	"github.com/districtnews/ingest/app/urlutil"
)

// ImageIndex maps canonical article links to the enclosure image the feed
// advertised for them. Feed images are usually better than whatever the
// article page exposes first, so extraction results are upgraded through
// this index when possible.
type ImageIndex struct {
	byLink map[string]string
}

func NewImageIndex(entries []Entry) *ImageIndex {
	idx := &ImageIndex{byLink: make(map[string]string, len(entries))}
	for _, entry := range entries {
		if entry.ImageURL == "" || entry.Link == "" {
			continue
		}
		key := urlutil.Normalize(entry.Link)
		if _, exists := idx.byLink[key]; !exists {
			idx.byLink[key] = entry.ImageURL
		}
	}
	return idx
}

// Lookup returns the feed image for url: an exact canonical match first,
// then a slug-suffix match for publishers whose feed links differ from the
// homepage links only in path prefix.
func (idx *ImageIndex) Lookup(url string) string {
	key := urlutil.Normalize(url)
	if img, ok := idx.byLink[key]; ok {
		return img
	}

	slug := lastSegment(key)
	if slug == "" {
		return ""
	}
	for link, img := range idx.byLink {
		if strings.HasSuffix(link, "/"+slug) {
			return img
		}
	}
	return ""
}

func lastSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
		seg := trimmed[i+1:]
		if strings.Contains(seg, ".") && !strings.HasSuffix(seg, ".html") {
			return ""
		}
		// Hostnames are not slugs.
		if strings.Contains(seg, ":") || !strings.Contains(trimmed[:i], "/") {
			return ""
		}
		return seg
	}
	return ""
}
