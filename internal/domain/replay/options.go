package replay

import (
	"github.com/okian/rematch/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithSampleFPS sets the sparse sampling rate within the replay window.
func WithSampleFPS(fps float64) Option {
	return func(p *Pipeline) {
		if fps > 0 {
			p.sampleFPS = fps
		}
	}
}

// WithTargetFPS sets the dense animation track frame rate.
func WithTargetFPS(fps float64) Option {
	return func(p *Pipeline) {
		if fps > 0 {
			p.targetFPS = fps
		}
	}
}

// WithWindowRadius extends the sampled window around the resolved offset.
func WithWindowRadius(seconds float64) Option {
	return func(p *Pipeline) {
		if seconds > 0 {
			p.windowRadius = seconds
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
