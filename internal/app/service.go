// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the websocket layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	resultqueue "github.com/codeduel/arena/internal/adapters/mq/queue"
	workerpool "github.com/codeduel/arena/internal/adapters/mq/worker"
	"github.com/codeduel/arena/internal/adapters/repository"
	"github.com/codeduel/arena/internal/domain/dedupe"
	"github.com/codeduel/arena/internal/domain/matchmaking"
	"github.com/codeduel/arena/internal/domain/model"
	"github.com/codeduel/arena/internal/domain/session"
	"github.com/codeduel/arena/internal/hub"
	"github.com/codeduel/arena/pkg/logger"
	"github.com/codeduel/arena/pkg/metrics"
)

// Service implements the API dependencies for the arena core.
type Service struct {
	mu sync.RWMutex

	// Core components
	ratings    repository.Store
	deduper    dedupe.Deduper
	queue      resultqueue.Queue
	workerPool *workerpool.Pool
	sessions   *session.Registry
	proctoring *hub.Hub

	// Configuration
	workerCount         int
	queueSize           int
	dedupeSize          int
	shardCount          int
	initialRating       int
	codeReserveAttempts int
	emitInterval        time.Duration
	monitorBuffer       int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rating worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match-result queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of rating store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithInitialRating seeds players unknown to the rating store.
func WithInitialRating(r int) Option {
	return func(s *Service) {
		if r > 0 {
			s.initialRating = r
		}
	}
}

// WithCodeReserveAttempts bounds join-code collision retries.
func WithCodeReserveAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeReserveAttempts = n
		}
	}
}

// WithEmitInterval sets the proctoring signal emitter period.
func WithEmitInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.emitInterval = interval
		}
	}
}

// WithMonitorBuffer bounds each monitor's outbound event buffer.
func WithMonitorBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.monitorBuffer = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 4,
		queueSize:           100000,
		dedupeSize:          50000,
		shardCount:          8,
		initialRating:       1000,
		codeReserveAttempts: 16,
		emitInterval:        5 * time.Second,
		monitorBuffer:       256,
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting arena core service...")

	s.ratings = repository.NewMemStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = resultqueue.NewInMemoryQueue(
		resultqueue.WithCapacity(s.queueSize),
	)
	s.sessions = session.NewRegistry(
		session.WithMaxAttempts(s.codeReserveAttempts),
	)
	s.proctoring = hub.New(
		hub.WithEmitInterval(s.emitInterval),
		hub.WithMonitorBuffer(s.monitorBuffer),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.ratings,
		workerpool.WithInitialRating(s.initialRating),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "arena core service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("initialRating", s.initialRating),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping arena core service...")

	if s.proctoring != nil {
		s.proctoring.Close()
	}
	if q, ok := s.queue.(*resultqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "arena core service stopped")
}

// Hub exposes the proctoring hub for the websocket transport.
func (s *Service) Hub() *hub.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proctoring
}

// SeenAndRecord atomically checks if a result id was seen and records it if not.
// Returns true if the result was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordResultDuplicate()
	}
	return seen
}

// Unrecord removes a result ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// EnqueueResult submits a match result for asynchronous processing.
func (s *Service) EnqueueResult(ctx context.Context, r model.MatchResult) bool {
	s.logger.Debug(ctx, "received match result",
		logger.String("resultID", r.ResultID),
		logger.String("playerID", r.PlayerID),
		logger.String("opponentID", r.OpponentID),
		logger.Float64("outcome", r.Outcome),
	)

	ok := s.queue.Enqueue(ctx, r)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// PlayerRating returns the stored rating for a player.
func (s *Service) PlayerRating(ctx context.Context, playerID string) (int, error) {
	r, err := s.ratings.Rating(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("player rating: %w", err)
	}
	return r, nil
}

// Standings returns the top N rating entries.
func (s *Service) Standings(ctx context.Context, n int) ([]repository.Entry, error) {
	entries, err := s.ratings.Standings(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("standings: %w", err)
	}
	return entries, nil
}

// CreateBattle issues a battle with a unique join code and a difficulty
// target based on the host's current rating. Hosts unknown to the store
// get the initial-rating target.
func (s *Service) CreateBattle(ctx context.Context, hostID string) (session.Battle, error) {
	hostRating, err := s.ratings.Rating(ctx, hostID)
	if errors.Is(err, repository.ErrNotFound) {
		hostRating = s.initialRating
	} else if err != nil {
		return session.Battle{}, fmt.Errorf("host rating: %w", err)
	}

	battle, err := s.sessions.Reserve(ctx, session.Battle{
		ID:         uuid.New().String(),
		HostID:     hostID,
		Difficulty: matchmaking.TargetDifficulty(hostRating),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return session.Battle{}, fmt.Errorf("reserve battle: %w", err)
	}

	s.logger.Info(ctx, "battle created",
		logger.String("battleID", battle.ID),
		logger.String("hostID", hostID),
		logger.Int("difficulty", battle.Difficulty),
	)
	return battle, nil
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalPlayers := s.ratings.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalPlayers"] = totalPlayers
		stats["liveBattles"] = s.sessions.Count()
		stats["monitorConnections"] = s.proctoring.MonitorCount()
		stats["examRooms"] = s.proctoring.RoomCount()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalPlayers(totalPlayers)
	}

	return stats
}
