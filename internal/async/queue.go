// Package async provides the bounded worker queue the batch extraction
// tooling runs files through.
package async

import (
	"context"
	"sync"
	"time"

	"log/slog"
)

// Job is one file waiting for extraction.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// Handler processes a single file. Errors are logged, not propagated; one
// bad file must not stall the batch.
type Handler func(ctx context.Context, path string) error

type Queue struct {
	handler Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(handler Handler, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		handler: handler,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.handler(ctx, job.Path)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "error", err)
					} else {
						q.logger.Debug("processed file", "worker_id", workerID, "path", job.Path)
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown closes intake and waits for in-flight jobs, bounded by ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Debug("queue drained, shutdown complete")
	}
}
