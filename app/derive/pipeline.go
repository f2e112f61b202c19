package derive

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/districtnews/ingest/app/textutil"
)

// SummaryWordTarget is the uniform summary length applied to every article.
const SummaryWordTarget = 60

// copiedPrefixTokens is how many leading summary tokens must appear verbatim
// in the body before the summary counts as copied rather than rewritten.
const copiedPrefixTokens = 12

const headlineMaxWords = 3

var defaultHeadline = HeadlinePair{Headline: "News Update", Subheadline: "Details inside"}

// Pipeline derives summary, topic, headline pair and category tags for one
// article. Model backends are optional; every derivation has a deterministic
// fallback, so Run always produces complete fields and never returns an error.
type Pipeline struct {
	summarizer        Summarizer
	classifier        Classifier
	headliner         HeadlineGenerator
	summarizerTimeout time.Duration
	classifierTimeout time.Duration
}

func NewPipeline(summarizer Summarizer, classifier Classifier, headliner HeadlineGenerator, summarizerTimeout, classifierTimeout time.Duration) *Pipeline {
	return &Pipeline{
		summarizer:        summarizer,
		classifier:        classifier,
		headliner:         headliner,
		summarizerTimeout: summarizerTimeout,
		classifierTimeout: classifierTimeout,
	}
}

func (p *Pipeline) Run(ctx context.Context, title, body string) Fields {
	return p.RunWithTimeouts(ctx, title, body, 0, 0)
}

// RunWithTimeouts lets a caller tighten the model-call deadlines for one
// derivation; non-positive values keep the configured defaults.
func (p *Pipeline) RunWithTimeouts(ctx context.Context, title, body string, summarizerTimeout, classifierTimeout time.Duration) Fields {
	if summarizerTimeout <= 0 {
		summarizerTimeout = p.summarizerTimeout
	}
	if classifierTimeout <= 0 {
		classifierTimeout = p.classifierTimeout
	}

	fields := Fields{
		Summary: p.deriveSummary(ctx, body, summarizerTimeout),
		Topic:   p.deriveTopic(ctx, title, body, classifierTimeout),
	}

	pair := p.deriveHeadline(ctx, title, fields.Summary, classifierTimeout)
	fields.Headline = pair.Headline
	fields.Subheadline = pair.Subheadline
	fields.Categories = BuildCategories(fields.Topic, body)

	return fields
}

// deriveSummary asks the backend for a rewritten condensation and falls back
// to truncating the body. A summary that opens with the body's own words is
// treated as copied and rejected; one retry, then the fallback.
func (p *Pipeline) deriveSummary(ctx context.Context, body string, timeout time.Duration) string {
	if p.summarizer == nil {
		return FallbackSummary(body)
	}

	for attempt := 1; attempt <= 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		raw, err := p.summarizer.Summarize(callCtx, body, SummaryWordTarget)
		cancel()

		if err != nil {
			slog.Warn("Summarizer call failed", "attempt", attempt, "error", err)
			continue
		}

		summary := textutil.NormalizeWhitespace(raw)
		if textutil.WordCount(summary) < 8 {
			slog.Debug("Summarizer returned degenerate summary", "attempt", attempt, "summary", summary)
			continue
		}
		if LooksCopied(summary, body) {
			slog.Debug("Summarizer copied the body verbatim", "attempt", attempt)
			continue
		}

		return textutil.EnsureSentenceEnd(summary)
	}

	return FallbackSummary(body)
}

func (p *Pipeline) deriveTopic(ctx context.Context, title, body string, timeout time.Duration) string {
	if p.classifier == nil {
		return MapToCategory(title)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	raw, err := p.classifier.Classify(callCtx, body)
	cancel()

	if err != nil {
		slog.Warn("Classifier call failed", "error", err)
		return MapToCategory(title)
	}
	return MapToCategory(raw)
}

func (p *Pipeline) deriveHeadline(ctx context.Context, title, summary string, timeout time.Duration) HeadlinePair {
	if p.headliner == nil {
		return defaultHeadline
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	pair, err := p.headliner.Headline(callCtx, title, summary)
	cancel()

	if err != nil {
		slog.Warn("Headline generation failed", "error", err)
		return defaultHeadline
	}

	pair.Headline = textutil.FirstNWords(textutil.NormalizeWhitespace(pair.Headline), headlineMaxWords)
	pair.Subheadline = textutil.FirstNWords(textutil.NormalizeWhitespace(pair.Subheadline), headlineMaxWords)
	if pair.Headline == "" || pair.Subheadline == "" {
		return defaultHeadline
	}
	return pair
}

// FallbackSummary is the deterministic summary: the leading words of the
// body, closed with terminal punctuation.
func FallbackSummary(body string) string {
	return textutil.EnsureSentenceEnd(textutil.TrimToWords(textutil.NormalizeWhitespace(body), SummaryWordTarget))
}

// LooksCopied reports whether the summary's leading tokens appear verbatim
// in the body, which means the backend truncated instead of rewriting.
func LooksCopied(summary, body string) bool {
	summaryTokens := strings.Fields(strings.ToLower(summary))
	if len(summaryTokens) > copiedPrefixTokens {
		summaryTokens = summaryTokens[:copiedPrefixTokens]
	}
	if len(summaryTokens) == 0 {
		return false
	}
	prefix := strings.Join(summaryTokens, " ")
	normalizedBody := strings.Join(strings.Fields(strings.ToLower(body)), " ")
	return strings.Contains(normalizedBody, prefix)
}
