// Package replay orchestrates one replay reconstruction end to end:
// timeline resolution, frame sampling, and motion interpolation.
package replay

import (
	"context"
	"fmt"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/resolve"
	"github.com/okian/rematch/internal/domain/sampler"
	"github.com/okian/rematch/internal/domain/track"
	"github.com/okian/rematch/pkg/logger"
)

// Default pipeline configuration constants.
const (
	defaultSampleFPS    = 5.0
	defaultTargetFPS    = 25.0
	defaultWindowRadius = 4.0
)

// Source is a seekable media source the pipeline owns for the duration of
// one run. It is closed on every exit path.
type Source interface {
	sampler.Source
	Close() error
}

// Opener produces a media source for the resolved asset. Opening happens
// only after resolution succeeds, so resolution failures never touch the
// media layer.
type Opener interface {
	Open(ctx context.Context, asset model.VideoAsset) (Source, error)
}

// Request carries everything one replay reconstruction needs.
type Request struct {
	Event    model.Event
	Assets   []model.VideoAsset
	Opener   Opener
	Progress sampler.ProgressFunc // optional; must not block
}

// Result is the reconstructed replay.
type Result struct {
	Resolution  resolve.Resolution
	Track       model.AnimationTrack
	SampleCount int

	// Degraded marks tracks built from fewer than two detection frames:
	// the animation will look static, not broken.
	Degraded bool
}

// Pipeline runs replay reconstructions with fixed sampling policy.
type Pipeline struct {
	sampler      *sampler.Sampler
	sampleFPS    float64
	targetFPS    float64
	windowRadius float64
	logger       logger.Logger
}

// New creates a Pipeline around the given sampler.
func New(s *sampler.Sampler, opts ...Option) *Pipeline {
	p := &Pipeline{
		sampler:      s,
		sampleFPS:    defaultSampleFPS,
		targetFPS:    defaultTargetFPS,
		windowRadius: defaultWindowRadius,
		logger:       logger.Get().Named("replay"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run reconstructs the replay for one event.
//
// Resolution failures abort before any media I/O. Sampling degradation
// follows the partial-result policy: one successful frame still yields a
// (degraded) track; zero successful frames surface as a soft failure with
// the resolution attached so the caller can still offer plain playback.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	res, err := resolve.Resolve(req.Event, req.Assets)
	if err != nil {
		return Result{}, fmt.Errorf("replay %s: %w", req.Event.ID, err)
	}

	out := Result{Resolution: res}

	src, err := req.Opener.Open(ctx, res.Asset)
	if err != nil {
		return out, fmt.Errorf("replay %s: open asset %s: %w", req.Event.ID, res.Asset.ID, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			p.logger.Warn(ctx, "closing media source failed",
				logger.String("asset", res.Asset.ID),
				logger.Error(cerr),
			)
		}
	}()

	windowStart := res.OffsetSeconds - p.windowRadius
	windowEnd := res.OffsetSeconds + p.windowRadius
	duration := src.DurationSeconds()
	if duration <= 0 {
		duration = res.Asset.DurationSeconds
	}
	if windowStart < 0 {
		windowStart = 0
	}
	if windowEnd > duration {
		windowEnd = duration
	}

	frames, err := p.sampler.Sample(ctx, src, windowStart, windowEnd, p.sampleFPS, req.Progress)
	if err != nil && len(frames) == 0 {
		// Soft failure when all samples failed: nothing to animate, but
		// the resolution still lets the caller play the raw video.
		return out, fmt.Errorf("replay %s: %w", req.Event.ID, err)
	}

	out.SampleCount = len(frames)
	out.Degraded = len(frames) < 2
	out.Track = track.Interpolate(frames, p.targetFPS)

	p.logger.Info(ctx, "replay reconstructed",
		logger.String("event", req.Event.ID),
		logger.String("asset", res.Asset.ID),
		logger.String("confidence", string(res.Confidence)),
		logger.Float64("offset_s", res.OffsetSeconds),
		logger.Int("samples", out.SampleCount),
		logger.Int("track_frames", len(out.Track.Frames)),
		logger.Bool("degraded", out.Degraded),
	)
	return out, nil
}
