package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	// ErrInvalidOutcome marks an actual score outside {0, 0.5, 1}.
	ErrInvalidOutcome = errors.New("invalid outcome")
)
