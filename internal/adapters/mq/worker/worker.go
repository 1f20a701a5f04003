// Package worker defines worker contracts for asynchronous rating updates.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/codeduel/arena/internal/adapters/repository"
	"github.com/codeduel/arena/internal/domain/model"
	"github.com/codeduel/arena/internal/domain/rating"
	"github.com/codeduel/arena/pkg/logger"
	"github.com/codeduel/arena/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	defaultInitialRating    = 1000
	workerShutdownTimeout   = 5 * time.Second
	poolMetricsInterval     = 5 * time.Second
)

// Result abstracts what workers read off the queue.
type Result = model.MatchResult

// RatingStore reads and writes participant ratings. Update must apply
// its callback atomically per player.
type RatingStore interface {
	Rating(ctx context.Context, playerID string) (int, error)
	Update(ctx context.Context, playerID string, fn func(current int, found bool) int) (int, error)
}

// Queue defines how workers receive results.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Result
}

// Worker processes match results and writes rating updates.
type Worker struct {
	queue         Queue
	store         RatingStore
	name          string
	initialRating int

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(queue Queue, store RatingStore, opts ...Option) *Worker {
	w := &Worker{
		queue:         queue,
		store:         store,
		name:          "worker", // default name
		initialRating: defaultInitialRating,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	results := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case result, ok := <-results:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processResult(ctx, result); err != nil {
				w.logger.Error(ctx, "error processing result", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processResult applies one match result to both participants.
func (w *Worker) processResult(ctx context.Context, result Result) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	outcome := rating.Outcome(result.Outcome)
	if !outcome.Valid() {
		metrics.RecordRatingError()
		return w.fail(ctx, result, "rate player", fmt.Errorf("%w: %v", rating.ErrInvalidOutcome, result.Outcome))
	}

	// Snapshot both sides before writing anything; each participant is
	// rated against the rating the other entered the battle with.
	playerRating, err := w.currentRating(ctx, result.PlayerID)
	if err != nil {
		return w.fail(ctx, result, "load player rating", err)
	}
	opponentRating, err := w.currentRating(ctx, result.OpponentID)
	if err != nil {
		return w.fail(ctx, result, "load opponent rating", err)
	}

	// Each write recomputes from the rating held at write time, under
	// the store's lock. Two results touching the same player therefore
	// stack instead of overwriting each other.
	newPlayer, err := w.store.Update(ctx, result.PlayerID, func(current int, found bool) int {
		if !found {
			current = w.initialRating
		}
		next, _ := rating.NewRating(current, opponentRating, outcome)
		return next
	})
	if err != nil {
		return w.fail(ctx, result, "store player rating", err)
	}
	metrics.RecordRatingUpdate()

	newOpponent, err := w.store.Update(ctx, result.OpponentID, func(current int, found bool) int {
		if !found {
			current = w.initialRating
		}
		next, _ := rating.NewRating(current, playerRating, rating.Opposite(outcome))
		return next
	})
	if err != nil {
		return w.fail(ctx, result, "store opponent rating", err)
	}
	metrics.RecordRatingUpdate()
	metrics.RecordResultProcessed()

	w.logger.Debug(ctx, "result processed",
		logger.String("resultID", result.ResultID),
		logger.String("playerID", result.PlayerID),
		logger.Int("playerRating", newPlayer),
		logger.String("opponentID", result.OpponentID),
		logger.Int("opponentRating", newOpponent),
	)

	return nil
}

// currentRating loads a participant's rating, seeding unknown players
// with the configured initial rating.
func (w *Worker) currentRating(ctx context.Context, playerID string) (int, error) {
	r, err := w.store.Rating(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return w.initialRating, nil
	}
	if err != nil {
		return 0, err
	}
	return r, nil
}

func (w *Worker) fail(ctx context.Context, result Result, op string, err error) error {
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", op)
	w.logger.Error(ctx, "processing failed",
		logger.String("op", op),
		logger.String("resultID", result.ResultID),
		logger.Error(err),
	)
	return fmt.Errorf("%s for result %s: %w", op, result.ResultID, err)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, store RatingStore, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewWorker(queue, store, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.refreshMetrics(ctx)
}

// refreshMetrics keeps the worker gauge current until the pool stops.
// Workers that exit on queue close would otherwise leave a stale count.
func (p *Pool) refreshMetrics(ctx context.Context) {
	ticker := time.NewTicker(poolMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			metrics.UpdateWorkerCount(p.runningWorkers())
		}
	}
}

func (p *Pool) runningWorkers() int {
	running := 0
	for _, w := range p.workers {
		select {
		case <-w.done:
		default:
			running++
		}
	}
	return running
}

// Stop gracefully stops all workers. Safe to call more than once.
func (p *Pool) Stop() {
	select {
	case <-p.shutdown:
		return
	default:
		close(p.shutdown)
	}

	for _, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}
