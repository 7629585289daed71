package sampler

import (
	"time"

	"github.com/okian/rematch/pkg/logger"
)

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSampleTimeout bounds one seek+decode+detect cycle. Expiry is a
// per-sample failure, not a fatal one.
func WithSampleTimeout(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.sampleTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the sampler.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}
