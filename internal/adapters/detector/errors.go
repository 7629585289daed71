package detector

import "errors"

// Detector client errors.
var (
	// ErrNotConfigured means no detection service URL was provided.
	ErrNotConfigured = errors.New("detector URL not configured")

	// ErrUnavailable means the detection service could not be reached or
	// returned a non-OK status.
	ErrUnavailable = errors.New("detector unavailable")

	// ErrBadResponse means the detection service answered with a body the
	// client could not parse.
	ErrBadResponse = errors.New("malformed detector response")
)
