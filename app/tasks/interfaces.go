package tasks

import (
	"context"

	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// SourceIngester is the slice of the orchestrator the scheduler needs.
type SourceIngester interface {
	IngestSource(ctx context.Context, src *source.Descriptor, opts ingest.Options) ingest.SourceDiagnostic
}
