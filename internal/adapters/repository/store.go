// Package repository defines the rating store interface and errors.
package repository

import "context"

// Entry represents a standings row.
type Entry struct {
	Rank     int
	PlayerID string
	Rating   int
}

// Store provides read/write access to participant ratings. The rating
// engine itself never persists anything; callers own this store.
type Store interface {
	// Rating returns the current rating for a player.
	// Returns ErrNotFound if the player is unknown.
	Rating(ctx context.Context, playerID string) (int, error)

	// SetRating writes the player's rating, creating the player if needed.
	SetRating(ctx context.Context, playerID string, rating int) error

	// Update applies fn to the player's current rating and stores the
	// result as a single atomic step, so concurrent updates to the same
	// player never lose writes. found reports whether the player already
	// existed. Returns the stored rating.
	Update(ctx context.Context, playerID string, fn func(current int, found bool) int) (int, error)

	// Standings returns the top-N entries ordered by rating desc.
	Standings(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players tracked in the store.
	Count(ctx context.Context) int
}
