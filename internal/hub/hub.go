// Package hub implements the exam-proctoring broadcast hub: rooms keyed
// by exam id, monitor connection lifecycle, and periodic fan-out of
// student events to every monitor of a room.
package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codeduel/arena/pkg/logger"
	"github.com/codeduel/arena/pkg/metrics"
)

// Default hub configuration constants.
const (
	defaultEmitInterval  = 5 * time.Second
	defaultMonitorBuffer = 256
	maxRoomIDLen         = 64
)

// room is one broadcast group. Each room owns its member set and lock,
// so membership churn in one exam never contends with another.
type room struct {
	id      string
	mu      sync.Mutex
	members map[*Monitor]struct{}
}

func (r *room) add(m *Monitor) {
	r.mu.Lock()
	r.members[m] = struct{}{}
	r.mu.Unlock()
}

func (r *room) remove(m *Monitor) int {
	r.mu.Lock()
	delete(r.members, m)
	n := len(r.members)
	r.mu.Unlock()
	return n
}

// Hub manages exam rooms and monitor connections.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]*room
	monitors int
	closed   bool

	emitInterval  time.Duration
	monitorBuffer int
	signals       *SignalSource

	wg     sync.WaitGroup
	logger logger.Logger
}

// New creates a hub with configuration options.
func New(opts ...Option) *Hub {
	h := &Hub{
		rooms:         make(map[string]*room),
		emitInterval:  defaultEmitInterval,
		monitorBuffer: defaultMonitorBuffer,
		signals:       NewSignalSource(),
		logger:        logger.Get().Named("hub"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Connect registers a new monitor connection in the Connected state. The
// monitor is not a member of any room until it joins one.
func (h *Hub) Connect() *Monitor {
	m := newMonitor(h.monitorBuffer)

	h.mu.Lock()
	h.monitors++
	count := h.monitors
	h.mu.Unlock()

	metrics.UpdateHubConnections(count)
	h.logger.Debug(context.Background(), "monitor connected", logger.String("monitorID", m.ID()))
	return m
}

// Join makes the monitor a member of the room identified by examID and
// starts its periodic signal emitter targeting that room. Joining the
// room the monitor is already in is a no-op: membership stays single and
// the existing emitter keeps running. Joining a different room moves the
// monitor and restarts the emitter for the new room. Returns
// ErrHubClosed once Close has run.
func (h *Hub) Join(m *Monitor, examID string) error {
	if err := validateRoomID(examID); err != nil {
		h.logger.Warn(context.Background(), "rejected join",
			logger.String("monitorID", m.ID()),
			logger.Error(err),
		)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if m.room != nil && m.room.id == examID {
		// Idempotent: same membership, same single emitter.
		return nil
	}

	// Leaving a previous room must tear down its emitter first; a
	// monitor owns at most one active emitter handle at a time.
	if m.room != nil {
		m.stopEmitterLocked()
		h.leaveRoom(m, m.room)
		m.room = nil
	}

	// Membership, the emitter registration, and the closed check happen
	// under the hub lock as one step. Close snapshots members under the
	// same lock, so a join either lands before shutdown and gets torn
	// down with everyone else, or is refused.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	r, ok := h.rooms[examID]
	if !ok {
		r = &room{id: examID, members: make(map[*Monitor]struct{})}
		h.rooms[examID] = r
	}
	r.add(m)
	h.wg.Add(1)
	h.mu.Unlock()
	m.room = r

	stop := make(chan struct{})
	m.stopEmit = stop
	go h.emit(examID, stop)

	metrics.UpdateHubRooms(h.roomCount())
	h.logger.Info(context.Background(), "monitor joined room",
		logger.String("monitorID", m.ID()),
		logger.String("examID", examID),
	)
	return nil
}

// Disconnect tears the monitor down: its emitter is cancelled, its room
// membership removed, and its event channel closed. Safe to call whether
// or not the monitor ever joined a room, and exactly once effective no
// matter how many times it is invoked. Other monitors are unaffected.
func (h *Hub) Disconnect(m *Monitor) {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.stopEmitterLocked()
		if m.room != nil {
			h.leaveRoom(m, m.room)
			m.room = nil
		}
		close(m.events)
		m.mu.Unlock()

		h.mu.Lock()
		h.monitors--
		count := h.monitors
		h.mu.Unlock()

		metrics.UpdateHubConnections(count)
		metrics.UpdateHubRooms(h.roomCount())
		h.logger.Debug(context.Background(), "monitor disconnected", logger.String("monitorID", m.ID()))
	})
}

// Broadcast delivers ev to every current member of the room. Members
// with a full buffer are skipped rather than blocking the room; drops
// are counted.
func (h *Hub) Broadcast(examID string, ev StudentEvent) {
	h.mu.RLock()
	r, ok := h.rooms[examID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	r.mu.Lock()
	for m := range r.members {
		select {
		case m.events <- ev:
		default:
			metrics.RecordHubDroppedEvent()
		}
	}
	r.mu.Unlock()
	metrics.RecordHubBroadcast()
}

// emit is the per-monitor periodic signal generator. It fires until its
// stop channel closes; the monitor lifecycle owns that handle.
func (h *Hub) emit(examID string, stop <-chan struct{}) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.emitInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Broadcast(examID, h.signals.Next())
		case <-stop:
			return
		}
	}
}

// Close disconnects every monitor and waits for emitters to stop.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var all []*Monitor
	for _, r := range h.rooms {
		r.mu.Lock()
		for m := range r.members {
			all = append(all, m)
		}
		r.mu.Unlock()
	}
	h.mu.Unlock()

	for _, m := range all {
		h.Disconnect(m)
	}
	h.wg.Wait()
	h.logger.Info(context.Background(), "hub stopped")
}

// RoomCount returns the number of active rooms.
func (h *Hub) RoomCount() int {
	return h.roomCount()
}

// MonitorCount returns the number of live monitor connections.
func (h *Hub) MonitorCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.monitors
}

// leaveRoom removes m from r, dropping the room once empty.
func (h *Hub) leaveRoom(m *Monitor, r *room) {
	if r.remove(m) == 0 {
		h.mu.Lock()
		// Re-check under the hub lock; a concurrent join may have
		// repopulated the room between remove and here.
		r.mu.Lock()
		if len(r.members) == 0 {
			delete(h.rooms, r.id)
		}
		r.mu.Unlock()
		h.mu.Unlock()
	}
}

func (h *Hub) roomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func validateRoomID(examID string) error {
	if examID == "" {
		return fmt.Errorf("%w: empty exam id", ErrInvalidRoom)
	}
	if len(examID) > maxRoomIDLen {
		return fmt.Errorf("%w: exam id longer than %d bytes", ErrInvalidRoom, maxRoomIDLen)
	}
	return nil
}
