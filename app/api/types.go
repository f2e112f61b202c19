package api

import (
	"context"

	"github.com/districtnews/ingest/app/database"
	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
)

// IngestRunner is the slice of the orchestrator the API needs.
type IngestRunner interface {
	Run(ctx context.Context, opts ingest.Options) ingest.Result
}

type Handler struct {
	articleRepo database.ArticleRepository
	sources     *source.ConfigCache
	runner      IngestRunner
	defaults    ingest.Options
}

// ingestRequest is the optional JSON body of POST /api/ingest. Zero values
// fall back to the configured defaults.
type ingestRequest struct {
	Mode                 string  `json:"mode"`
	MaxCandidates        int     `json:"max_candidates"`
	ProbeTimeoutMs       int     `json:"probe_timeout_ms"`
	PageTimeoutMs        int     `json:"page_timeout_ms"`
	SummarizerTimeoutMs  int     `json:"summarizer_timeout_ms"`
	ClassifierTimeoutMs  int     `json:"classifier_timeout_ms"`
	TitleDedupeThreshold float64 `json:"title_dedupe_threshold"`
	TitleDedupeWindow    int     `json:"title_dedupe_window"`
}
