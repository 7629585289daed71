// Package worker runs replay reconstructions asynchronously: a pool of
// workers drains the job queue, drives the pipeline per job, and publishes
// states into a bounded results store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/rematch/internal/adapters/mq/queue"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/replay"
	"github.com/okian/rematch/pkg/logger"
	"github.com/okian/rematch/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Catalog reads events and match footage for jobs.
type Catalog interface {
	Event(ctx context.Context, id string) (model.Event, error)
	AssetsForMatch(ctx context.Context, matchID string) ([]model.VideoAsset, error)
}

// Runner reconstructs one replay. Implemented by the replay pipeline.
type Runner interface {
	Run(ctx context.Context, req replay.Request) (replay.Result, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes replay jobs until stopped.
type Worker struct {
	queue   Queue
	catalog Catalog
	runner  Runner
	opener  replay.Opener
	results *Results
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(q Queue, catalog Catalog, runner Runner, opener replay.Opener, results *Results, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		catalog:  catalog,
		runner:   runner,
		opener:   opener,
		results:  results,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "replay job failed",
					logger.String("job", job.ID),
					logger.String("event", job.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob reconstructs one replay and publishes its state.
func (w *Worker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerJobLatency(float64(time.Since(start).Milliseconds()))
	}()

	w.results.SetRunning(job.ID)

	ev, err := w.catalog.Event(ctx, job.EventID)
	if err != nil {
		w.fail(job.ID, nil, err)
		return fmt.Errorf("load event %s: %w", job.EventID, err)
	}

	assets, err := w.catalog.AssetsForMatch(ctx, ev.MatchID)
	if err != nil {
		w.fail(job.ID, nil, err)
		return fmt.Errorf("load assets for match %s: %w", ev.MatchID, err)
	}

	res, err := w.runner.Run(ctx, replay.Request{
		Event:  ev,
		Assets: assets,
		Opener: w.opener,
		Progress: func(f float64) {
			w.results.SetProgress(job.ID, f)
		},
	})
	if err != nil {
		// A soft failure still carries the resolution; keep it visible.
		var partial *replay.Result
		if res.Resolution.Asset.ID != "" {
			partial = &res
		}
		w.fail(job.ID, partial, err)
		return fmt.Errorf("reconstruct event %s: %w", job.EventID, err)
	}

	w.results.SetReady(job.ID, res)
	metrics.RecordReplayJobCompleted()
	return nil
}

// fail records a job failure in results and metrics.
func (w *Worker) fail(jobID string, partial *replay.Result, err error) {
	w.results.SetFailed(jobID, err.Error(), partial)
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", "job_failed")
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*Worker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one
// defaults to the number of CPUs.
func NewPool(workerCount int, q Queue, catalog Catalog, runner Runner, opener replay.Opener, results *Results) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = New(
			q, catalog, runner, opener, results,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers without waiting for queued jobs.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
