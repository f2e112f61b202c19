package discover

import (
	"testing"
)

func TestFindArticleLinks(t *testing.T) {
	pageHTML := `<html><body>
		<a href="/2024/05/budget-vote">Dated</a>
		<a href="/news/port-expansion">Section</a>
		<a href="/economy/sugar-exports-rise-4521">Numeric slug</a>
		<a href="/lagazette-823.html">Slug html</a>
		<a href="/about">Plain page</a>
		<a href="/category/politics">Listing</a>
		<a href="/tag/economy">Tag</a>
		<a href="/author/jdoe">Author</a>
		<a href="https://other.example.org/news/offsite-story">Offsite</a>
		<a href="#top">Fragment</a>
		<a href="mailto:desk@example.com">Mail</a>
	</body></html>`

	finder := NewFinder()
	links := finder.Run([]byte(pageHTML), "https://example.com", 0)

	expected := []string{
		"https://example.com/2024/05/budget-vote",
		"https://example.com/news/port-expansion",
		"https://example.com/economy/sugar-exports-rise-4521",
		"https://example.com/lagazette-823.html",
	}
	if len(links) != len(expected) {
		t.Fatalf("Expected %d links, got %d: %v", len(expected), len(links), links)
	}
	for i, want := range expected {
		if links[i] != want {
			t.Errorf("Expected link %d to be %s, got %s", i, want, links[i])
		}
	}
}

func TestFindArticleLinksDeduplicates(t *testing.T) {
	pageHTML := `<html><body>
		<a href="/news/story-one">First</a>
		<a href="/news/story-one/">Trailing slash</a>
		<a href="/news/story-one?utm_source=home">Tracking params</a>
		<a href="/news/story-two">Second</a>
	</body></html>`

	finder := NewFinder()
	links := finder.Run([]byte(pageHTML), "https://example.com", 0)

	if len(links) != 2 {
		t.Fatalf("Expected 2 unique links, got %d: %v", len(links), links)
	}
	if links[0] != "https://example.com/news/story-one" {
		t.Errorf("Expected first variant kept, got %s", links[0])
	}
}

func TestFindArticleLinksCap(t *testing.T) {
	pageHTML := `<html><body>
		<a href="/news/a">a</a>
		<a href="/news/b">b</a>
		<a href="/news/c">c</a>
		<a href="/news/d">d</a>
	</body></html>`

	finder := NewFinder()
	links := finder.Run([]byte(pageHTML), "https://example.com", 2)

	if len(links) != 2 {
		t.Fatalf("Expected cap of 2 links, got %d", len(links))
	}
}

func TestFindArticleLinksEmptyPage(t *testing.T) {
	finder := NewFinder()
	if links := finder.Run([]byte("<html><body><p>no anchors</p></body></html>"), "https://example.com", 0); len(links) != 0 {
		t.Errorf("Expected no links, got %v", links)
	}
}
