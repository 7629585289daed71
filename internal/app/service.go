// Package service wires the replay reconstruction components together and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rematch/internal/adapters/http/api"
	jobqueue "github.com/okian/rematch/internal/adapters/mq/queue"
	workerpool "github.com/okian/rematch/internal/adapters/mq/worker"
	"github.com/okian/rematch/internal/adapters/repository"
	"github.com/okian/rematch/internal/domain/replay"
	"github.com/okian/rematch/internal/domain/sampler"
	"github.com/okian/rematch/pkg/logger"
)

// Service runs the replay reconstruction system: catalog reads, the job
// queue, the worker pool, and status reporting.
type Service struct {
	mu sync.RWMutex

	// Injected collaborators
	store    repository.Store
	detector sampler.Detector
	opener   replay.Opener

	// Built on Start
	queue   *jobqueue.InMemoryQueue
	results *workerpool.Results
	pool    *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	resultCapacity int
	sampleFPS      float64
	targetFPS      float64
	windowRadius   float64
	sampleTimeout  time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      1024,
		resultCapacity: 512,
		sampleFPS:      5,
		targetFPS:      25,
		windowRadius:   4,
		sampleTimeout:  2 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		return errors.New("no catalog store configured")
	}
	if s.detector == nil {
		return errors.New("no detector configured")
	}
	if s.opener == nil {
		return errors.New("no media opener configured")
	}

	s.logger.Info(ctx, "starting replay service...")

	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.results = workerpool.NewResults(s.resultCapacity)

	pipeline := replay.New(
		sampler.New(s.detector, sampler.WithSampleTimeout(s.sampleTimeout)),
		replay.WithSampleFPS(s.sampleFPS),
		replay.WithTargetFPS(s.targetFPS),
		replay.WithWindowRadius(s.windowRadius),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store, pipeline, s.opener, s.results)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "replay service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Float64("sampleFPS", s.sampleFPS),
		logger.Float64("targetFPS", s.targetFPS),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping replay service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing catalog store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "replay service stopped")
}

// SubmitReplay validates the event and queues a reconstruction job.
func (s *Service) SubmitReplay(ctx context.Context, eventID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", errors.New("service not started")
	}

	// Unknown events are rejected at the door so callers get a 404 now
	// instead of a failed job later.
	if _, err := s.store.Event(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", api.ErrUnknownEvent, eventID)
		}
		return "", fmt.Errorf("look up event %s: %w", eventID, err)
	}

	jobID := uuid.NewString()
	s.results.Track(jobID, eventID)

	if !s.queue.Enqueue(ctx, jobqueue.Job{ID: jobID, EventID: eventID}) {
		s.results.SetFailed(jobID, "queue full", nil)
		return "", api.ErrBackpressure
	}

	s.logger.Debug(ctx, "replay job queued",
		logger.String("job", jobID),
		logger.String("event", eventID),
	)
	return jobID, nil
}

// ReplayStatus returns the state of a previously submitted job.
func (s *Service) ReplayStatus(_ context.Context, jobID string) (workerpool.JobState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return workerpool.JobState{}, false
	}
	return s.results.Get(jobID)
}

// Stats reports queue and worker counters for monitoring.
func (s *Service) Stats(ctx context.Context) api.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := api.Stats{
		QueueCapacity: s.queueSize,
		WorkerCount:   s.workerCount,
	}
	if s.started {
		stats.QueueSize = s.queue.Len(ctx)
		stats.TrackedJobs = s.results.Len()
	}
	return stats
}
