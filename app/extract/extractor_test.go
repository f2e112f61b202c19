package extract

import (
	"strings"
	"testing"
)

const articlePage = `<html><head>
<title>Fallback Title | Publisher</title>
<meta property="og:title" content="Budget vote passes in assembly">
<meta property="og:description" content="The national assembly approved the budget.">
<meta property="og:image" content="/img/budget.jpg">
<meta property="article:published_time" content="2024-05-03T08:30:00Z">
</head><body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Budget vote passes in assembly</h1>
<p>The national assembly approved the annual budget on Friday after a long debate.</p>
<p>Opposition members criticised the allocation for infrastructure projects in the south.</p>
<p>The finance minister defended the plan as balanced and growth oriented overall.</p>
<div class="share">Share this article</div>
<script>trackPageView();</script>
</article>
<footer>Copyright</footer>
</body></html>`

func TestExtractArticle(t *testing.T) {
	extractor := NewExtractor()
	article := extractor.Run([]byte(articlePage), "https://example.com/news/budget-vote")

	if article == nil {
		t.Fatal("Expected article, got nil")
	}
	if article.Title != "Budget vote passes in assembly" {
		t.Errorf("Expected og:title, got: %s", article.Title)
	}
	if article.Description != "The national assembly approved the budget." {
		t.Errorf("Unexpected description: %s", article.Description)
	}
	if article.ImageURL != "https://example.com/img/budget.jpg" {
		t.Errorf("Expected resolved og:image, got: %s", article.ImageURL)
	}
	if article.PublishedAt == nil {
		t.Fatal("Expected publish date")
	}
	if article.PublishedAt.Format("2006-01-02") != "2024-05-03" {
		t.Errorf("Unexpected publish date: %s", article.PublishedAt)
	}
	if !strings.Contains(article.Body, "approved the annual budget") {
		t.Errorf("Expected body paragraphs, got: %s", article.Body)
	}
	if strings.Contains(article.Body, "Share this article") || strings.Contains(article.Body, "trackPageView") {
		t.Errorf("Expected boilerplate removed from body, got: %s", article.Body)
	}
}

func TestExtractTitleFallbacks(t *testing.T) {
	pageHTML := `<html><head><title>Title Tag Wins</title></head><body>
<p>First paragraph with enough characters to count toward the body gate here.</p>
<p>Second paragraph with enough characters to count toward the body gate too.</p>
<p>Third paragraph with enough characters to count toward the body gate also.</p>
</body></html>`

	article := NewExtractor().Run([]byte(pageHTML), "https://example.com/a")
	if article == nil {
		t.Fatal("Expected article, got nil")
	}
	if article.Title != "Title Tag Wins" {
		t.Errorf("Expected title tag fallback, got: %s", article.Title)
	}
}

func TestExtractQualityGate(t *testing.T) {
	pageHTML := `<html><body><p>Too short.</p></body></html>`
	if article := NewExtractor().Run([]byte(pageHTML), "https://example.com/a"); article != nil {
		t.Errorf("Expected nil for page below quality gate, got: %+v", article)
	}
}

func TestExtractDescriptionFallbackBody(t *testing.T) {
	pageHTML := `<html><head>
<meta name="description" content="A long standalone description used when the page itself renders its content with client side scripts and serves no static paragraphs at all.">
</head><body><div id="app"></div></body></html>`

	article := NewExtractor().Run([]byte(pageHTML), "https://example.com/a")
	if article == nil {
		t.Fatal("Expected meta description to satisfy the body gate")
	}
	if !strings.Contains(article.Body, "standalone description") {
		t.Errorf("Expected description promoted to body, got: %s", article.Body)
	}
}

func TestExtractNeverPanicsOnGarbage(t *testing.T) {
	inputs := [][]byte{nil, []byte(""), []byte("\x00\x01\x02"), []byte("<<<<not html")}
	for _, input := range inputs {
		if article := NewExtractor().Run(input, "https://example.com"); article != nil {
			t.Errorf("Expected nil for garbage input %q", input)
		}
	}
}
