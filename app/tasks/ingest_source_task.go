package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
)

// IngestSourceTask runs one source through the ingestion pipeline on a
// background worker.
type IngestSourceTask struct {
	Task
	src      *source.Descriptor
	ingester SourceIngester
	opts     ingest.Options
}

func NewIngestSourceTask(src *source.Descriptor, ingester SourceIngester, opts ingest.Options) *IngestSourceTask {
	return &IngestSourceTask{
		Task:     NewTask(TaskTypeIngestSource, src.Name),
		src:      src,
		ingester: ingester,
		opts:     opts,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.src.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	diagnostic := t.ingester.IngestSource(ctx, t.src, t.opts)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ingestion interrupted: %w", err)
	}

	slog.Info("Task completed",
		"type", "IngestSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"feed_found", diagnostic.FeedFound,
		"candidates", diagnostic.CandidatesFound,
		"inserted", diagnostic.Inserted,
		"skip_reason", diagnostic.SkipReason)

	return nil
}
