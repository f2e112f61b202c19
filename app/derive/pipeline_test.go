package derive

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

type stubSummarizer struct {
	results []string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(ctx context.Context, body string, wordTarget int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	result := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return result, nil
}

type stubClassifier struct {
	result string
	err    error
}

func (s *stubClassifier) Classify(ctx context.Context, body string) (string, error) {
	return s.result, s.err
}

type stubHeadliner struct {
	pair HeadlinePair
	err  error
}

func (s *stubHeadliner) Headline(ctx context.Context, title, summary string) (HeadlinePair, error) {
	return s.pair, s.err
}

const testBody = "The national assembly approved the annual budget on Friday after a long debate. " +
	"Opposition members criticised the allocation for infrastructure projects in the south. " +
	"The finance minister defended the plan as balanced and growth oriented."

func newTestPipeline(s Summarizer, c Classifier, h HeadlineGenerator) *Pipeline {
	return NewPipeline(s, c, h, time.Second, time.Second)
}

func TestPipelineHappyPath(t *testing.T) {
	pipeline := newTestPipeline(
		&stubSummarizer{results: []string{"Lawmakers passed the yearly spending plan despite criticism over southern infrastructure funding priorities"}},
		&stubClassifier{result: "Politics"},
		&stubHeadliner{pair: HeadlinePair{Headline: "Budget Approved", Subheadline: "Assembly votes"}},
	)

	fields := pipeline.Run(context.Background(), "Budget vote passes", testBody)

	if !strings.HasSuffix(fields.Summary, ".") {
		t.Errorf("Expected summary with terminal punctuation, got: %s", fields.Summary)
	}
	if fields.Topic != "Politics" {
		t.Errorf("Expected Politics topic, got: %s", fields.Topic)
	}
	if fields.Headline != "Budget Approved" || fields.Subheadline != "Assembly votes" {
		t.Errorf("Unexpected headline pair: %s / %s", fields.Headline, fields.Subheadline)
	}
}

func TestPipelineSummaryFallbackOnError(t *testing.T) {
	summarizer := &stubSummarizer{err: fmt.Errorf("model unavailable")}
	pipeline := newTestPipeline(summarizer, nil, nil)

	fields := pipeline.Run(context.Background(), "Budget vote passes", testBody)

	if summarizer.calls != 2 {
		t.Errorf("Expected one retry before fallback, got %d calls", summarizer.calls)
	}
	if !strings.HasPrefix(fields.Summary, "The national assembly approved") {
		t.Errorf("Expected truncation fallback, got: %s", fields.Summary)
	}
	if strings.Contains(fields.Summary, "…") || strings.HasSuffix(fields.Summary, "...") {
		t.Errorf("Expected no ellipsis in fallback summary, got: %s", fields.Summary)
	}
}

func TestPipelineRejectsCopiedSummary(t *testing.T) {
	copied := testBody
	rewritten := "Lawmakers passed the yearly spending plan despite criticism over infrastructure funding in the south"
	pipeline := newTestPipeline(&stubSummarizer{results: []string{copied, rewritten}}, nil, nil)

	fields := pipeline.Run(context.Background(), "Budget vote passes", testBody)

	if !strings.HasPrefix(fields.Summary, "Lawmakers passed") {
		t.Errorf("Expected retry to replace copied summary, got: %s", fields.Summary)
	}
}

func TestPipelineHeadlineFallback(t *testing.T) {
	pipeline := newTestPipeline(nil, nil, &stubHeadliner{err: fmt.Errorf("model unavailable")})
	fields := pipeline.Run(context.Background(), "Budget vote passes", testBody)

	if fields.Headline != "News Update" || fields.Subheadline != "Details inside" {
		t.Errorf("Expected default headline pair, got: %s / %s", fields.Headline, fields.Subheadline)
	}
}

func TestPipelineHeadlineClamped(t *testing.T) {
	pipeline := newTestPipeline(nil, nil, &stubHeadliner{pair: HeadlinePair{
		Headline:    "A very long headline that keeps going",
		Subheadline: "More details",
	}})
	fields := pipeline.Run(context.Background(), "t", testBody)

	if fields.Headline != "A very long" {
		t.Errorf("Expected headline clamped to 3 words, got: %s", fields.Headline)
	}
}

func TestPipelineWithoutBackends(t *testing.T) {
	pipeline := newTestPipeline(nil, nil, nil)
	fields := pipeline.Run(context.Background(), "Football final tonight", testBody)

	if fields.Summary == "" {
		t.Error("Expected fallback summary without a backend")
	}
	if fields.Topic != "Sports" {
		t.Errorf("Expected title keywords to drive fallback topic, got: %s", fields.Topic)
	}
	if fields.Headline != "News Update" {
		t.Errorf("Expected default headline, got: %s", fields.Headline)
	}
}

func TestLooksCopied(t *testing.T) {
	if !LooksCopied(testBody, testBody) {
		t.Error("Expected identical text to look copied")
	}
	if LooksCopied("A fresh rewording of events in parliament today", testBody) {
		t.Error("Expected rewritten text to pass")
	}
	if LooksCopied("", testBody) {
		t.Error("Expected empty summary not to look copied")
	}
}

func TestMapToCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Business", "Business"},
		{"business", "Business"},
		{"World Politics", "Politics"},
		{"the economy", "Business"},
		{"football", "Sports"},
		{"quantum chromodynamics", "Miscellaneous"},
		{"", "Miscellaneous"},
	}
	for _, test := range tests {
		if got := MapToCategory(test.input); got != test.want {
			t.Errorf("MapToCategory(%q): expected %s, got %s", test.input, test.want, got)
		}
	}
}

func TestMapToCategoryAlwaysInVocabulary(t *testing.T) {
	vocab := make(map[string]bool, len(Vocabulary))
	for _, category := range Vocabulary {
		vocab[category] = true
	}
	inputs := []string{"", "   ", "Business", "totally made up label", "sports & leisure", "AI", "santé"}
	for _, input := range inputs {
		if got := MapToCategory(input); !vocab[got] {
			t.Errorf("MapToCategory(%q) returned %q, not a vocabulary member", input, got)
		}
	}
}

func TestBuildCategories(t *testing.T) {
	categories := BuildCategories("Politics", "The budget debate continued in parliament.")
	expected := []string{"Top Stories", "Politics", "Finance"}
	if len(categories) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, categories)
	}
	for i, want := range expected {
		if categories[i] != want {
			t.Errorf("Expected category %d to be %s, got %s", i, want, categories[i])
		}
	}

	categories = BuildCategories("Sports", "The team celebrated a famous win over their rivals.")
	if categories[len(categories)-1] != "Good News" {
		t.Errorf("Expected Good News tag for positive story, got %v", categories)
	}

	categories = BuildCategories("Business", "Quarterly results.")
	if categories[2] != "Finance" {
		t.Errorf("Expected Finance tag for Business topic, got %v", categories)
	}
}
