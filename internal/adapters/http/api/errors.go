package api

import "errors"

// API errors surfaced by the application layer.
var (
	// ErrBackpressure means the job queue is full and the submission was
	// rejected.
	ErrBackpressure = errors.New("queue full")

	// ErrUnknownEvent means the submitted event id does not exist in the
	// catalog.
	ErrUnknownEvent = errors.New("unknown event")
)
