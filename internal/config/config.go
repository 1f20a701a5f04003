// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ResultQueueSize bounds the in-memory match-result queue.
	ResultQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the result deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the rating store.
	ShardCount int `koanf:"shard_count"`

	// InitialRating seeds players unknown to the rating store.
	InitialRating int `koanf:"initial_rating"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// EmitIntervalMS sets the proctoring signal emitter period in milliseconds.
	EmitIntervalMS int `koanf:"emit_interval_ms"`

	// MonitorBufferSize bounds each monitor connection's outbound event buffer.
	MonitorBufferSize int `koanf:"monitor_buffer_size"`

	// CodeReserveAttempts bounds join-code collision retries per battle.
	CodeReserveAttempts int `koanf:"code_reserve_attempts"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		ResultQueueSize:     100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          500_000,
		ShardCount:          8,
		InitialRating:       1000,
		MaxStandingsLimit:   100,
		EmitIntervalMS:      5000,
		MonitorBufferSize:   256,
		CodeReserveAttempts: 16,
	}
	return c
}
