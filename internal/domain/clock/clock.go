// Package clock holds the single authoritative rules for match-clock
// arithmetic and half classification. Every call site that needs to know
// which half a clock position falls in must go through ClassifyHalf;
// duplicating the minute/half guessing logic elsewhere is a bug.
package clock

import (
	"fmt"

	"github.com/okian/rematch/internal/domain/model"
)

// Match timing constants.
const (
	// NominalHalfMinutes is where the second half nominally begins on the
	// continuous match clock.
	NominalHalfMinutes = 45

	// MaxFirstHalfStoppageMinute bounds the first-half stoppage window.
	// Five minutes of stoppage is a policy constant, not a rule of the
	// sport; adjust here if competitions with longer stoppage show up.
	MaxFirstHalfStoppageMinute = 50

	secondsPerMinute  = 60
	maxSecondOfMinute = 59
)

// Validate rejects clock positions that cannot occur on a match clock.
func Validate(c model.MatchClock) error {
	if c.Minute < 0 {
		return fmt.Errorf("%w: minute %d", ErrInvalidClock, c.Minute)
	}
	if c.Second < 0 || c.Second > maxSecondOfMinute {
		return fmt.Errorf("%w: second %d", ErrInvalidClock, c.Second)
	}
	return nil
}

// AbsoluteSeconds converts a clock position to continuous match seconds.
func AbsoluteSeconds(c model.MatchClock) float64 {
	return float64(c.Minute)*secondsPerMinute + float64(c.Second)
}

// IsFirstHalfStoppage reports whether the clock position falls in the
// first-half stoppage window: the half is explicitly the first and the
// minute is in [NominalHalfMinutes, MaxFirstHalfStoppageMinute].
func IsFirstHalfStoppage(c model.MatchClock) bool {
	return c.Half == model.HalfFirst &&
		c.Minute >= NominalHalfMinutes &&
		c.Minute <= MaxFirstHalfStoppageMinute
}

// ClassifyHalf resolves which half a clock position belongs to:
//   - first-half stoppage (explicit first half, minute in the stoppage
//     window) classifies as first;
//   - minute below NominalHalfMinutes classifies as first;
//   - everything else classifies as second, including minutes past the
//     stoppage window that still carry a (stale) first-half label.
//
// The explicit Half field only matters for the stoppage window; the
// continuous minute decides the rest, so an Unknown half never leaks out.
func ClassifyHalf(c model.MatchClock) model.Half {
	switch {
	case IsFirstHalfStoppage(c):
		return model.HalfFirst
	case c.Minute < NominalHalfMinutes:
		return model.HalfFirst
	default:
		return model.HalfSecond
	}
}
