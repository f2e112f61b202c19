package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/districtnews/ingest/app/database"
	"github.com/districtnews/ingest/app/dedupe"
	"github.com/districtnews/ingest/app/derive"
	"github.com/districtnews/ingest/app/discover"
	"github.com/districtnews/ingest/app/extract"
	"github.com/districtnews/ingest/app/feed"
	"github.com/districtnews/ingest/app/fetch"
	"github.com/districtnews/ingest/app/source"
	"github.com/districtnews/ingest/app/urlutil"
)

// Mode selects the run policy.
type Mode string

const (
	// ModeSingle stops the whole run after the first successful insert.
	// This is the contract for the HTTP trigger: one call, at most one
	// new article.
	ModeSingle Mode = "single"

	// ModeBatch inserts at most one article per source and keeps going
	// through the remaining sources. The scheduler runs each source this
	// way.
	ModeBatch Mode = "batch"
)

// Options bound one ingestion run. Zero model-call timeouts keep the
// pipeline's configured defaults.
type Options struct {
	ProbeTimeout         time.Duration
	PageTimeout          time.Duration
	SummarizerTimeout    time.Duration
	ClassifierTimeout    time.Duration
	TitleDedupeThreshold float64
	TitleDedupeWindow    int
	MaxCandidates        int
	Mode                 Mode
}

// SourceDiagnostic records what happened for one source during a run.
type SourceDiagnostic struct {
	Source          string `json:"source"`
	FeedFound       bool   `json:"feed_found"`
	HomeFetched     bool   `json:"home_fetched"`
	CandidatesFound int    `json:"candidates_found"`
	SkipReason      string `json:"skip_reason,omitempty"`
	Inserted        bool   `json:"inserted"`
	InsertedURL     string `json:"inserted_url,omitempty"`
}

// Result is the structured report of one run. It is always well formed;
// Run never returns an error.
type Result struct {
	OK            bool               `json:"ok"`
	InsertedCount int                `json:"inserted_count"`
	Diagnostics   []SourceDiagnostic `json:"diagnostics"`
}

// candidate is one article URL under consideration, with whatever the feed
// already told us about it.
type candidate struct {
	url         string
	title       string
	imageURL    string
	publishedAt *time.Time
}

// Orchestrator drives the full pipeline: probe feed, discover homepage
// links, extract, dedup, derive, insert. Every stage failure becomes a
// skip-and-continue decision plus a diagnostic entry.
type Orchestrator struct {
	client    *fetch.Client
	prober    *feed.Prober
	finder    *discover.Finder
	extractor *extract.Extractor
	dedupe    *dedupe.Engine
	pipeline  *derive.Pipeline
	repo      database.ArticleRepository
	sources   *source.ConfigCache
}

func NewOrchestrator(client *fetch.Client, prober *feed.Prober, finder *discover.Finder,
	extractor *extract.Extractor, dedupeEngine *dedupe.Engine, pipeline *derive.Pipeline,
	repo database.ArticleRepository, sources *source.ConfigCache) *Orchestrator {
	return &Orchestrator{
		client:    client,
		prober:    prober,
		finder:    finder,
		extractor: extractor,
		dedupe:    dedupeEngine,
		pipeline:  pipeline,
		repo:      repo,
		sources:   sources,
	}
}

// Run processes every enabled source in priority order under the given
// options and returns a structured report.
func (o *Orchestrator) Run(ctx context.Context, opts Options) Result {
	result := Result{}

	for _, src := range o.sources.GetEnabledSources() {
		diagnostic := o.IngestSource(ctx, src, opts)
		result.Diagnostics = append(result.Diagnostics, diagnostic)

		if diagnostic.Inserted {
			result.InsertedCount++
			if opts.Mode == ModeSingle {
				break
			}
		}
	}

	result.OK = result.InsertedCount > 0
	return result
}

// IngestSource runs the pipeline for one source, inserting at most one
// article. All stage errors are absorbed into the diagnostic.
func (o *Orchestrator) IngestSource(ctx context.Context, src *source.Descriptor, opts Options) (diagnostic SourceDiagnostic) {
	diagnostic.Source = src.Name

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Ingestion panicked, converting to diagnostic",
				"source", src.Name, "panic", r)
			diagnostic.SkipReason = fmt.Sprintf("internal error: %v", r)
			diagnostic.Inserted = false
		}
	}()

	maxCandidates := opts.MaxCandidates
	if src.Settings.MaxCandidates > 0 {
		maxCandidates = src.Settings.MaxCandidates
	}

	candidates, imageIndex := o.discoverCandidates(ctx, src, opts, maxCandidates, &diagnostic)
	diagnostic.CandidatesFound = len(candidates)
	if len(candidates) == 0 {
		diagnostic.SkipReason = "no candidates discovered"
		return diagnostic
	}

	for _, cand := range candidates {
		inserted, url := o.tryCandidate(ctx, src, cand, imageIndex, opts)
		if inserted {
			diagnostic.Inserted = true
			diagnostic.InsertedURL = url
			return diagnostic
		}
	}

	diagnostic.SkipReason = "all candidates were duplicates or failed extraction"
	return diagnostic
}

// discoverCandidates merges feed entries (feed order first) with homepage
// links, deduplicated by canonical URL and capped.
func (o *Orchestrator) discoverCandidates(ctx context.Context, src *source.Descriptor, opts Options, maxCandidates int, diagnostic *SourceDiagnostic) ([]candidate, *feed.ImageIndex) {
	var candidates []candidate
	seen := make(map[string]bool)

	add := func(cand candidate) {
		key := urlutil.Normalize(cand.url)
		if cand.url == "" || seen[key] {
			return
		}
		seen[key] = true
		if maxCandidates <= 0 || len(candidates) < maxCandidates {
			candidates = append(candidates, cand)
		}
	}

	entries := o.prober.Run(ctx, src.FeedURL, src.Homepage, opts.ProbeTimeout)
	diagnostic.FeedFound = len(entries) > 0
	for _, entry := range entries {
		add(candidate{
			url:         entry.Link,
			title:       entry.Title,
			imageURL:    entry.ImageURL,
			publishedAt: entry.PublishedAt,
		})
	}

	imageIndex := feed.NewImageIndex(entries)

	pageHTML, err := o.client.Get(ctx, src.Homepage, opts.PageTimeout)
	if err != nil {
		slog.Debug("Homepage fetch failed", "source", src.Name, "error", err)
		return candidates, imageIndex
	}
	diagnostic.HomeFetched = true

	for _, link := range o.finder.Run(pageHTML, src.Homepage, maxCandidates) {
		add(candidate{url: link})
	}

	return candidates, imageIndex
}

// tryCandidate takes one URL through extract, dedup, derive and insert.
// Returns whether an article was stored and its canonical URL.
func (o *Orchestrator) tryCandidate(ctx context.Context, src *source.Descriptor, cand candidate, imageIndex *feed.ImageIndex, opts Options) (bool, string) {
	canonical := urlutil.Normalize(cand.url)

	if o.dedupe.IsDuplicateURL(canonical) {
		slog.Debug("Candidate URL already stored", "source", src.Name, "url", canonical)
		return false, ""
	}

	pageHTML, err := o.client.Get(ctx, cand.url, opts.PageTimeout)
	if err != nil {
		slog.Debug("Candidate fetch failed", "source", src.Name, "url", cand.url, "error", err)
		return false, ""
	}

	article := o.extractor.Run(pageHTML, cand.url)
	if article == nil {
		slog.Debug("Candidate failed extraction", "source", src.Name, "url", cand.url)
		return false, ""
	}

	title := article.Title
	if cand.title != "" {
		title = cand.title
	}

	if o.dedupe.IsDuplicateTitle(title, opts.TitleDedupeThreshold, opts.TitleDedupeWindow) {
		slog.Debug("Candidate title matches recent article", "source", src.Name, "title", title)
		return false, ""
	}

	fields := o.pipeline.RunWithTimeouts(ctx, title, article.Body, opts.SummarizerTimeout, opts.ClassifierTimeout)

	imageURL := cand.imageURL
	if imageURL == "" {
		imageURL = imageIndex.Lookup(cand.url)
	}
	if imageURL == "" {
		imageURL = article.ImageURL
	}

	publishedAt := cand.publishedAt
	if publishedAt == nil {
		publishedAt = article.PublishedAt
	}

	inserted, err := o.repo.Insert(database.Article{
		Title:       title,
		Summary:     fields.Summary,
		ImageURL:    imageURL,
		SourceURL:   canonical,
		SourceName:  src.Name,
		Topic:       fields.Topic,
		Categories:  fields.Categories,
		Headline:    fields.Headline,
		Subheadline: fields.Subheadline,
		PublishedAt: publishedAt,
	})
	if err != nil {
		slog.Warn("Article insert failed", "source", src.Name, "url", canonical, "error", err)
		return false, ""
	}
	if !inserted {
		// Lost the race to another run; the UNIQUE constraint held.
		slog.Debug("Candidate inserted concurrently elsewhere", "source", src.Name, "url", canonical)
		return false, ""
	}

	slog.Info("Article ingested", "source", src.Name, "url", canonical, "topic", fields.Topic)
	return true, canonical
}
