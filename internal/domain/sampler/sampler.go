// Package sampler drives a seekable media source through a window of
// timestamps and forwards each decoded frame to an object detector,
// producing the sparse detection sequence the interpolator consumes.
package sampler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/logger"
	"github.com/okian/rematch/pkg/metrics"
)

// Default sampler configuration constants.
const (
	// defaultSampleTimeout bounds one seek+decode+detect cycle. A detector
	// call that never returns is treated as a per-sample failure.
	defaultSampleTimeout = 2 * time.Second
)

// Source is the narrow view of a seekable media source the sampler needs.
// Seek returns only once the frame at the requested timestamp is decoded
// and readable; reading pixels before that observes a stale or torn frame.
// A single source exposes one decode position at a time, so the sampler
// never issues overlapping seeks.
type Source interface {
	// Seek positions the source at tSeconds. Seeking past the end clamps
	// to the end rather than failing.
	Seek(ctx context.Context, tSeconds float64) error

	// Frame returns the currently decoded frame.
	Frame(ctx context.Context) ([]byte, error)

	// DurationSeconds reports the measured media duration.
	DurationSeconds() float64
}

// Detector analyzes one frame and returns detected entities in the
// normalized 0-100 field space.
type Detector interface {
	Detect(ctx context.Context, frame []byte) ([]model.Entity, error)
}

// ProgressFunc receives fractional progress in (0, 1]. It is invoked
// inline between samples and must not block; sampling never waits on the
// consumer.
type ProgressFunc func(fraction float64)

// Sampler produces sparse detection frames from a media source.
type Sampler struct {
	detector      Detector
	sampleTimeout time.Duration
	logger        logger.Logger
}

// New creates a Sampler with configuration options.
func New(detector Detector, opts ...Option) *Sampler {
	s := &Sampler{
		detector:      detector,
		sampleTimeout: defaultSampleTimeout,
		logger:        logger.Get().Named("sampler"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sample walks [windowStart, windowEnd) at framesPerSecond, seeking,
// decoding, and detecting one sample at a time.
//
// Per-sample failures (detector errors, the per-sample deadline expiring
// mid-seek or mid-detect) are recorded as gaps and sampling continues;
// partial results are always returned. Cancellation of ctx is checked at
// each frame boundary and returns the frames collected so far alongside
// the context error. A pass with zero successful samples returns
// ErrInsufficientSamples.
func (s *Sampler) Sample(ctx context.Context, src Source, windowStart, windowEnd, framesPerSecond float64, progress ProgressFunc) ([]model.DetectionFrame, error) {
	if framesPerSecond <= 0 || windowEnd < windowStart {
		return nil, fmt.Errorf("%w: window [%f, %f) at %f fps", ErrInvalidWindow, windowStart, windowEnd, framesPerSecond)
	}

	total := int(math.Ceil((windowEnd - windowStart) * framesPerSecond))
	if total < 1 {
		total = 1
	}

	frames := make([]model.DetectionFrame, 0, total)
	gaps := 0

	for i := 0; i < total; i++ {
		// Cooperative cancellation at the frame boundary: after the
		// previous sample completed, before the next seek is issued.
		if err := ctx.Err(); err != nil {
			return frames, fmt.Errorf("sampling cancelled after %d of %d samples: %w", i, total, err)
		}

		t := windowStart + float64(i)/framesPerSecond
		frame, err := s.sampleOne(ctx, src, t)
		if err != nil {
			gaps++
			metrics.RecordSampleFailed()
			metrics.RecordErrorByComponent("sampler", "sample_gap")
			s.logger.Warn(ctx, "sample gap",
				logger.Float64("t", t),
				logger.Int("index", i),
				logger.Error(err),
			)
		} else {
			frames = append(frames, frame)
			metrics.RecordSampleSucceeded()
		}

		if progress != nil {
			progress(float64(i+1) / float64(total))
		}
	}

	if len(frames) == 0 {
		return frames, fmt.Errorf("%w: %d samples attempted, all failed", ErrInsufficientSamples, total)
	}

	s.logger.Debug(ctx, "sampling pass complete",
		logger.Int("samples", len(frames)),
		logger.Int("gaps", gaps),
	)
	return frames, nil
}

// sampleOne runs one seek+decode+detect cycle under the per-sample
// deadline.
func (s *Sampler) sampleOne(ctx context.Context, src Source, t float64) (model.DetectionFrame, error) {
	sctx, cancel := context.WithTimeout(ctx, s.sampleTimeout)
	defer cancel()

	seekStart := time.Now()
	if err := src.Seek(sctx, t); err != nil {
		return model.DetectionFrame{}, fmt.Errorf("seek to %.3fs: %w", t, err)
	}
	metrics.RecordSeekLatency(float64(time.Since(seekStart).Milliseconds()))

	img, err := src.Frame(sctx)
	if err != nil {
		return model.DetectionFrame{}, fmt.Errorf("read frame at %.3fs: %w", t, err)
	}

	detectStart := time.Now()
	entities, err := s.detector.Detect(sctx, img)
	metrics.RecordDetectorLatency(float64(time.Since(detectStart).Milliseconds()))
	if err != nil {
		metrics.RecordDetectorError()
		return model.DetectionFrame{}, fmt.Errorf("%w at %.3fs: %w", ErrDetectorUnavailable, t, err)
	}

	return model.DetectionFrame{SampleTimeSeconds: t, Entities: entities}, nil
}
