package media

import "errors"

// Media adapter errors.
var (
	// ErrSeekInFlight means a seek was issued while another one was still
	// running. Sources hold a single decode position; concurrent seeks are
	// a caller bug, not a condition to wait out.
	ErrSeekInFlight = errors.New("seek already in flight")

	// ErrSourceClosed means the source was used after Close.
	ErrSourceClosed = errors.New("media source closed")

	// ErrNoFrame means Frame was called before any seek completed.
	ErrNoFrame = errors.New("no frame decoded yet")
)
