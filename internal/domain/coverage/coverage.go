// Package coverage builds a queryable map from match minutes to the video
// assets believed to cover them, and owns the one canonical fallback order
// for "which file shows minute M of half H".
package coverage

import (
	"fmt"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/metrics"
)

// Index answers coverage queries over a fixed set of assets. Input order
// is preserved: it is the stable tie-break and the last-resort fallback.
type Index struct {
	assets []model.VideoAsset
}

// Match is the result of a coverage query. LowConfidence marks the
// last-resort fallback, where no label, minute range, or full-match asset
// matched and the first asset was returned so playback can still happen.
type Match struct {
	Asset         model.VideoAsset
	LowConfidence bool
}

// New builds an index over the given assets. The slice is copied; callers
// may mutate theirs afterwards.
func New(assets []model.VideoAsset) *Index {
	ix := &Index{assets: make([]model.VideoAsset, len(assets))}
	copy(ix.assets, assets)
	return ix
}

// FindAssetFor resolves the asset covering the given continuous match
// minute in the given (already classified) half. Fallback order:
//
//  1. assets whose half label equals the classified half;
//  2. minute containment in [declaredStart, effectiveEnd), where the
//     effective end derives from the measured duration, never from the
//     declared end minute;
//  3. an asset labelled full-match;
//  4. the first asset in input order, flagged low confidence.
//
// Ties within steps 1 and 2 prefer the asset with the larger
// duration-derived coverage, then earlier input order.
//
// Only an empty asset set fails: playing something is preferable to
// playing nothing.
func (ix *Index) FindAssetFor(matchMinute int, half model.Half) (Match, error) {
	if len(ix.assets) == 0 {
		return Match{}, fmt.Errorf("%w: minute %d", ErrNoAssets, matchMinute)
	}

	// Step 1: explicit half label.
	if best, ok := ix.pickBest(func(a model.VideoAsset) bool {
		return a.HalfLabel == half
	}); ok {
		return Match{Asset: best}, nil
	}

	// Step 2: duration-derived minute containment.
	m := float64(matchMinute)
	if best, ok := ix.pickBest(func(a model.VideoAsset) bool {
		return m >= float64(a.DeclaredStartMinute) && m < a.EffectiveEndMinute()
	}); ok {
		return Match{Asset: best}, nil
	}

	// Step 3: a full-match asset covers any minute.
	for _, a := range ix.assets {
		if a.HalfLabel == model.HalfFull {
			return Match{Asset: a}, nil
		}
	}

	// Step 4: last resort, flagged so callers can warn.
	metrics.RecordCoverageFallback()
	return Match{Asset: ix.assets[0], LowConfidence: true}, nil
}

// pickBest returns the matching asset with the largest duration-derived
// coverage, keeping input order on ties.
func (ix *Index) pickBest(matches func(model.VideoAsset) bool) (model.VideoAsset, bool) {
	var best model.VideoAsset
	found := false
	for _, a := range ix.assets {
		if !matches(a) {
			continue
		}
		if !found || a.DurationSeconds > best.DurationSeconds {
			best = a
			found = true
		}
	}
	return best, found
}
