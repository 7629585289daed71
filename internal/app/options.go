package service

import (
	"time"

	"github.com/okian/rematch/internal/adapters/repository"
	"github.com/okian/rematch/internal/domain/replay"
	"github.com/okian/rematch/internal/domain/sampler"
	"github.com/okian/rematch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the catalog store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDetector sets the entity detector.
func WithDetector(d sampler.Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithOpener sets the media source opener.
func WithOpener(o replay.Opener) Option {
	return func(s *Service) {
		if o != nil {
			s.opener = o
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithResultCapacity sets how many job states are retained.
func WithResultCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.resultCapacity = capacity
		}
	}
}

// WithSampleFPS sets the sparse sampling rate within replay windows.
func WithSampleFPS(fps float64) Option {
	return func(s *Service) {
		if fps > 0 {
			s.sampleFPS = fps
		}
	}
}

// WithTargetFPS sets the dense animation track frame rate.
func WithTargetFPS(fps float64) Option {
	return func(s *Service) {
		if fps > 0 {
			s.targetFPS = fps
		}
	}
}

// WithWindowRadius sets the sampled window half-width in seconds.
func WithWindowRadius(seconds float64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.windowRadius = seconds
		}
	}
}

// WithSampleTimeout bounds each seek-decode-detect cycle.
func WithSampleTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sampleTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
