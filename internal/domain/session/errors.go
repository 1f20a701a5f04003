package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrCodeSpaceExhausted = errors.New("join code space exhausted")
)
