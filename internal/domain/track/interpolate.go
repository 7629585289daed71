// Package track turns sparse detection frames into a dense, uniformly
// time-stepped animation track by linear interpolation over matched entity
// identities.
package track

import (
	"math"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/metrics"
)

// Interpolate produces a dense animation track from detection frames
// sorted by sample time.
//
// Fewer than two frames is a defined edge case, not an error: the input is
// returned as a track with its original (irregular) spacing and a zero
// frame interval, and no interpolation is attempted.
//
// For each consecutive frame pair, entities present in both frames move
// linearly between their two positions; entities present in only one
// frame hold their last-known position for the whole segment so they fade
// out on a frame boundary instead of popping mid-segment. The track always
// ends on the last real observation, never on an extrapolation.
func Interpolate(frames []model.DetectionFrame, targetFPS float64) model.AnimationTrack {
	start := time.Now()
	defer func() {
		metrics.RecordInterpolationDuration(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if len(frames) < 2 || targetFPS <= 0 {
		metrics.RecordTrackDegraded()
		return passthrough(frames)
	}

	out := model.AnimationTrack{FrameIntervalSeconds: 1 / targetFPS}

	for i := 0; i < len(frames)-1; i++ {
		a, b := frames[i], frames[i+1]
		dt := b.SampleTimeSeconds - a.SampleTimeSeconds
		steps := int(math.Ceil(dt * targetFPS))
		if steps < 1 {
			steps = 1
		}

		pairs, onlyA, onlyB := associate(a.Entities, b.Entities)

		for step := 0; step < steps; step++ {
			tau := float64(step) / float64(steps)
			tf := model.TrackFrame{
				TSeconds: a.SampleTimeSeconds + tau*dt,
				Entities: make(map[string]model.Position, len(pairs)+len(onlyA)+len(onlyB)),
			}
			for _, p := range pairs {
				tf.Entities[p.a.ID] = model.Position{
					X: p.a.X + (p.b.X-p.a.X)*tau,
					Y: p.a.Y + (p.b.Y-p.a.Y)*tau,
				}
			}
			// Unmatched entities hold their last-known position for the
			// segment; they disappear only once both neighbours lack them.
			for _, e := range onlyA {
				tf.Entities[e.ID] = model.Position{X: e.X, Y: e.Y}
			}
			for _, e := range onlyB {
				tf.Entities[e.ID] = model.Position{X: e.X, Y: e.Y}
			}
			out.Frames = append(out.Frames, tf)
		}
	}

	// End exactly on the final observation.
	last := frames[len(frames)-1]
	out.Frames = append(out.Frames, toTrackFrame(last))

	metrics.RecordTrackBuilt(len(out.Frames))
	return out
}

// passthrough reinterprets raw detection frames as a track without
// touching their timing.
func passthrough(frames []model.DetectionFrame) model.AnimationTrack {
	out := model.AnimationTrack{}
	for _, f := range frames {
		out.Frames = append(out.Frames, toTrackFrame(f))
	}
	return out
}

func toTrackFrame(f model.DetectionFrame) model.TrackFrame {
	tf := model.TrackFrame{
		TSeconds: f.SampleTimeSeconds,
		Entities: make(map[string]model.Position, len(f.Entities)),
	}
	for _, e := range f.Entities {
		tf.Entities[e.ID] = model.Position{X: e.X, Y: e.Y}
	}
	return tf
}
