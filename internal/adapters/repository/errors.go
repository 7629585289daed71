package repository

import "errors"

// Repository errors.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
