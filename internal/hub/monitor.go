package hub

import (
	"sync"

	"github.com/google/uuid"
)

// Monitor represents one connected observer. Lifecycle: created by
// Hub.Connect, member of at most one room after Hub.Join, terminal after
// Hub.Disconnect. The monitor owns its emitter handle; cancellation is
// part of the disconnect transition, not something callers manage.
type Monitor struct {
	id     string
	events chan StudentEvent

	mu       sync.Mutex
	room     *room
	stopEmit chan struct{}
	closed   bool

	closeOnce sync.Once
}

func newMonitor(buffer int) *Monitor {
	return &Monitor{
		id:     uuid.New().String(),
		events: make(chan StudentEvent, buffer),
	}
}

// ID returns the monitor's connection identifier.
func (m *Monitor) ID() string {
	return m.id
}

// Events returns the monitor's outbound event stream. The channel is
// closed when the monitor disconnects.
func (m *Monitor) Events() <-chan StudentEvent {
	return m.events
}

// Room returns the id of the joined room, or "" while only connected.
func (m *Monitor) Room() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.room == nil {
		return ""
	}
	return m.room.id
}

// stopEmitterLocked cancels the active emitter handle, if any. Must be
// called with m.mu held.
func (m *Monitor) stopEmitterLocked() {
	if m.stopEmit != nil {
		close(m.stopEmit)
		m.stopEmit = nil
	}
}
