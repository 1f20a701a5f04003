package hub

import "errors"

// Sentinel kinds for hub errors.
var (
	ErrInvalidRoom   = errors.New("invalid room id")
	ErrMonitorClosed = errors.New("monitor disconnected")
	ErrHubClosed     = errors.New("hub stopped")
)
