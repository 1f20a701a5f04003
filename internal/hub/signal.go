package hub

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Placeholder signal categories. A production deployment would feed the
// hub from a real anomaly-detection pipeline instead.
const (
	TypeTabSwitch   = "TAB_SWITCH"
	TypeFaceMissing = "FACE_MISSING"

	SeverityWarning = "warning"

	signalStudentPool = 8
)

// StudentEvent is the broadcast payload sent to room monitors. The hub
// never stores events; they are transient.
type StudentEvent struct {
	StudentID string `json:"studentId"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"` // ISO-8601
	Severity  string `json:"severity"`
}

// SignalOption applies a configuration option to the SignalSource.
type SignalOption func(*SignalSource)

// WithSignalRand sets the random source, letting tests assert exact
// event sequences.
func WithSignalRand(src rand.Source) SignalOption {
	return func(s *SignalSource) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // synthetic demo events
		}
	}
}

// WithSignalClock sets the timestamp clock.
func WithSignalClock(now func() time.Time) SignalOption {
	return func(s *SignalSource) {
		if now != nil {
			s.now = now
		}
	}
}

// SignalSource synthesizes monitoring events. It stands in for the
// computer-vision pipeline that produces proctoring signals in
// production.
type SignalSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSignalSource creates a signal source with configuration options.
func NewSignalSource(opts ...SignalOption) *SignalSource {
	s := &SignalSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // synthetic demo events
		now: time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Next draws one synthetic student event: a student from a fixed small
// pool, a type alternating pseudo-randomly between the two categories,
// and a constant severity.
func (s *SignalSource) Next() StudentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := [2]string{TypeTabSwitch, TypeFaceMissing}
	return StudentEvent{
		StudentID: fmt.Sprintf("student-%d", 1+s.rng.Intn(signalStudentPool)),
		Type:      kinds[s.rng.Intn(len(kinds))],
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Severity:  SeverityWarning,
	}
}
