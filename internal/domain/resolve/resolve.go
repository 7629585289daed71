// Package resolve converts a match event into a concrete (asset, offset)
// playback position. It is the one authoritative decision point for when a
// stored offset is trusted and when one is recomputed and clamped.
package resolve

import (
	"fmt"

	"github.com/okian/rematch/internal/domain/clock"
	"github.com/okian/rematch/internal/domain/coverage"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/metrics"
)

// TailGuardSeconds is how far before the end of an asset an overshooting
// offset is clamped, so playback still has content to show.
const TailGuardSeconds = 5

const secondsPerMinute = 60

// Resolution is the outcome of mapping an event onto a video asset.
//
// Confidence tiers:
//   - High: the stored offset was present and in range, trusted verbatim.
//   - Medium: the offset was recomputed from the match clock and landed
//     inside the asset.
//   - Low: the recomputed offset fell outside the asset and was clamped.
//
// LowConfidenceAsset is the separate coverage warning: the asset itself
// was a last-resort pick.
type Resolution struct {
	Asset              model.VideoAsset
	OffsetSeconds      float64
	Confidence         model.Confidence
	LowConfidenceAsset bool
}

// Resolve maps an event's clock position onto one of the given assets.
// Fails only when the event clock is invalid or no assets exist; every
// other input degrades to a clamped best effort.
func Resolve(event model.Event, assets []model.VideoAsset) (Resolution, error) {
	if err := clock.Validate(event.Clock); err != nil {
		metrics.RecordResolutionError()
		return Resolution{}, fmt.Errorf("resolve event %s: %w", event.ID, err)
	}

	half := clock.ClassifyHalf(event.Clock)
	m, err := coverage.New(assets).FindAssetFor(event.Clock.Minute, half)
	if err != nil {
		metrics.RecordResolutionError()
		return Resolution{}, fmt.Errorf("resolve event %s: %w", event.ID, err)
	}

	res := Resolution{Asset: m.Asset, LowConfidenceAsset: m.LowConfidence}

	// A stored offset that is already in range is never recomputed;
	// recomputing trusted data is how drift creeps back in.
	if off := event.RecordedOffsetSeconds; off != nil && *off >= 0 && *off <= m.Asset.DurationSeconds {
		res.OffsetSeconds = *off
		res.Confidence = model.ConfidenceHigh
		metrics.RecordResolution(string(res.Confidence))
		return res, nil
	}

	raw := float64(event.Clock.Minute-m.Asset.DeclaredStartMinute)*secondsPerMinute +
		float64(event.Clock.Second)

	switch {
	case raw < 0:
		// Event precedes the asset's coverage.
		res.OffsetSeconds = 0
		res.Confidence = model.ConfidenceLow
	case raw > m.Asset.DurationSeconds:
		// Event overshoots the asset; bias toward the tail, not the end.
		res.OffsetSeconds = max(0, m.Asset.DurationSeconds-TailGuardSeconds)
		res.Confidence = model.ConfidenceLow
	default:
		res.OffsetSeconds = raw
		res.Confidence = model.ConfidenceMedium
	}

	metrics.RecordResolution(string(res.Confidence))
	return res, nil
}
