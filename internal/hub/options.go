package hub

import (
	"time"

	"github.com/codeduel/arena/pkg/logger"
)

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithEmitInterval sets the period of the per-monitor signal emitter.
func WithEmitInterval(interval time.Duration) Option {
	return func(h *Hub) {
		if interval > 0 {
			h.emitInterval = interval
		}
	}
}

// WithMonitorBuffer bounds each monitor's outbound event buffer.
func WithMonitorBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.monitorBuffer = size
		}
	}
}

// WithSignalSource sets the proctoring signal generator.
func WithSignalSource(src *SignalSource) Option {
	return func(h *Hub) {
		if src != nil {
			h.signals = src
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(logger logger.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}
