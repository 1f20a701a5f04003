package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codeduel/arena/pkg/metrics"
)

// Battle describes one created battle session.
type Battle struct {
	ID         string
	Code       string
	HostID     string
	Difficulty int
	CreatedAt  time.Time
}

// RegistryOption applies a configuration option to the Registry.
type RegistryOption func(*Registry)

// WithIssuer sets a custom code issuer.
func WithIssuer(issuer *Issuer) RegistryOption {
	return func(r *Registry) {
		if issuer != nil {
			r.issuer = issuer
		}
	}
}

// WithMaxAttempts bounds the collision retry loop in Reserve.
func WithMaxAttempts(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// Registry tracks live battles by join code. It wraps the collision-blind
// Issuer with an existence check plus retry so codes handed to callers
// are unique among live battles.
type Registry struct {
	mu          sync.RWMutex
	battles     map[string]Battle
	issuer      *Issuer
	maxAttempts int
}

// NewRegistry creates a registry with configuration options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		battles:     make(map[string]Battle),
		issuer:      NewIssuer(),
		maxAttempts: 16,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reserve issues a code not currently held by any live battle and
// registers the battle under it. The 6-digit space is small, so the
// retry budget is bounded; exhausting it returns ErrCodeSpaceExhausted.
func (r *Registry) Reserve(ctx context.Context, b Battle) (Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Battle{}, fmt.Errorf("reserve cancelled: %w", err)
		}

		code := r.issuer.Issue()
		if _, taken := r.battles[code]; taken {
			metrics.RecordSessionCodeCollision()
			continue
		}

		b.Code = code
		r.battles[code] = b
		metrics.RecordSessionCodeIssued()
		return b, nil
	}

	return Battle{}, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, r.maxAttempts)
}

// Lookup returns the battle registered under code.
func (r *Registry) Lookup(code string) (Battle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.battles[code]
	return b, ok
}

// Release frees a join code once its battle ends.
func (r *Registry) Release(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.battles, code)
}

// Count returns the number of live battles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}
