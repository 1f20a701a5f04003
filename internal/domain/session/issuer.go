// Package session issues and tracks human-shareable battle join codes.
package session

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Join codes are 6-digit numeric strings in [100000, 999999].
const (
	codeMin = 100000
	codeMax = 999999
)

// Option applies a configuration option to the Issuer.
type Option func(*Issuer)

// WithRand sets the random source, letting tests assert exact sequences.
func WithRand(src rand.Source) Option {
	return func(i *Issuer) {
		if src != nil {
			i.rng = rand.New(src) //nolint:gosec // join codes are not security tokens
		}
	}
}

// Issuer draws uniform random join codes. It performs no collision
// check on its own; uniqueness is the caller's responsibility (see
// Registry.Reserve).
type Issuer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewIssuer creates an issuer with configuration options.
func NewIssuer(opts ...Option) *Issuer {
	i := &Issuer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // join codes are not security tokens
	}

	// Apply all options
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Issue returns a uniform random 6-digit code.
func (i *Issuer) Issue() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return strconv.Itoa(codeMin + i.rng.Intn(codeMax-codeMin+1))
}
