package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
)

type failingTask struct {
	Task
	executed chan struct{}
}

func (t *failingTask) Execute(ctx context.Context) error {
	select {
	case t.executed <- struct{}{}:
	default:
	}
	return errors.New("publisher unavailable")
}

type signalingIngester struct {
	called chan struct{}
}

func (s *signalingIngester) IngestSource(ctx context.Context, src *source.Descriptor, opts ingest.Options) ingest.SourceDiagnostic {
	select {
	case s.called <- struct{}{}:
	default:
	}
	return ingest.SourceDiagnostic{Source: src.Name}
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sources:     source.NewConfigCache(t.TempDir()),
		interval:    time.Hour,
		workerCount: 1,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 8),
	}
}

func TestSchedulerExecutesEnqueuedTask(t *testing.T) {
	scheduler := newTestScheduler(t)
	scheduler.Start()
	defer scheduler.Stop()

	ingester := &signalingIngester{called: make(chan struct{}, 1)}
	src := &source.Descriptor{Name: "example", Homepage: "https://example.com", Enabled: true}
	if err := scheduler.EnqueueTask(NewIngestSourceTask(src, ingester, scheduler.opts)); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	select {
	case <-ingester.called:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected worker to execute the task")
	}
}

func TestSchedulerStopWithPendingRetry(t *testing.T) {
	scheduler := newTestScheduler(t)
	scheduler.Start()

	task := &failingTask{Task: NewTask(TaskTypeIngestSource, "example"), executed: make(chan struct{}, 4)}
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	select {
	case <-task.executed:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected worker to execute the task")
	}
	// Give the worker a moment to schedule the retry after the failure.
	time.Sleep(100 * time.Millisecond)

	// Stop must wait out the pending retry goroutine before closing the
	// queue; a send on the closed queue would panic here.
	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return with a retry pending")
	}
}

func TestSchedulerEnqueueTaskQueueFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := &Scheduler{
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 1),
	}

	src := &source.Descriptor{Name: "example", Homepage: "https://example.com", Enabled: true}
	first := NewIngestSourceTask(src, &signalingIngester{called: make(chan struct{}, 1)}, scheduler.opts)
	second := NewIngestSourceTask(src, &signalingIngester{called: make(chan struct{}, 1)}, scheduler.opts)

	if err := scheduler.EnqueueTask(first); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}
	if err := scheduler.EnqueueTask(second); err == nil {
		t.Error("Expected error when the queue is full")
	}
}
