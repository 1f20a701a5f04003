package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/codeduel/arena/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// shard holds one partition of the rating map with its own lock, so
// writes for unrelated players never contend.
type shard struct {
	mu      sync.RWMutex
	ratings map[string]int
}

// MemStore implements Store with sharded in-memory maps.
type MemStore struct {
	shards []*shard
}

// NewMemStore creates an in-memory rating store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{}
	cfg := &storeConfig{shardCount: defaultShardCount}

	// Apply all options
	for _, opt := range opts {
		opt(cfg)
	}

	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{ratings: make(map[string]int)}
	}

	return s
}

func (s *MemStore) shardFor(playerID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Rating returns the current rating for a player.
func (s *MemStore) Rating(ctx context.Context, playerID string) (int, error) {
	sh := s.shardFor(playerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	r, ok := sh.ratings[playerID]
	if !ok {
		return 0, ErrNotFound
	}
	return r, nil
}

// SetRating writes the player's rating, creating the player if needed.
func (s *MemStore) SetRating(ctx context.Context, playerID string, ratingValue int) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(playerID)
	sh.mu.Lock()
	sh.ratings[playerID] = ratingValue
	sh.mu.Unlock()

	metrics.UpdateTotalPlayers(s.Count(ctx))
	return nil
}

// Update applies fn under the shard lock, serializing concurrent
// updates to the same player.
func (s *MemStore) Update(ctx context.Context, playerID string, fn func(current int, found bool) int) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(playerID)
	sh.mu.Lock()
	current, found := sh.ratings[playerID]
	next := fn(current, found)
	sh.ratings[playerID] = next
	sh.mu.Unlock()

	metrics.UpdateTotalPlayers(s.Count(ctx))
	return next, nil
}

// Standings returns the top-N entries ordered by rating desc, with ties
// broken by player id for a stable order.
func (s *MemStore) Standings(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	var entries []Entry
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, r := range sh.ratings {
			entries = append(entries, Entry{PlayerID: id, Rating: r})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Count returns the number of players tracked in the store.
func (s *MemStore) Count(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.ratings)
		sh.mu.RUnlock()
	}
	return total
}
