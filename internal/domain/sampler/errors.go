package sampler

import "errors"

// Sentinel kinds for sampling errors.
var (
	ErrInvalidWindow       = errors.New("invalid sampling window")
	ErrDetectorUnavailable = errors.New("detector unavailable")
	ErrInsufficientSamples = errors.New("insufficient samples")
)
