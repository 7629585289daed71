package clock

import "errors"

// Sentinel kinds for clock errors.
var (
	ErrInvalidClock = errors.New("invalid match clock")
)
