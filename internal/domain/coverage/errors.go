package coverage

import "errors"

// Sentinel kinds for coverage errors.
var (
	ErrNoAssets = errors.New("no video assets available")
)
