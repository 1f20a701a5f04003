// Package rating computes Elo-style rating updates for battle outcomes.
package rating

import (
	"fmt"
	"math"
)

// K-factor tiers. Higher-rated players move less per result so that
// established ratings stay stable.
const (
	masterThreshold    = 2400
	candidateThreshold = 2100

	masterK    = 10
	candidateK = 24
	defaultK   = 32

	logisticBase = 10
	ratingSpread = 400
)

// Outcome encodes the actual score of a battle round.
type Outcome float64

// Valid outcomes: loss, draw, win.
const (
	Loss Outcome = 0
	Draw Outcome = 0.5
	Win  Outcome = 1
)

// Valid reports whether the outcome is one of {0, 0.5, 1}.
func (o Outcome) Valid() bool {
	return o == Loss || o == Draw || o == Win
}

// KFactor returns the update sensitivity for a player's current rating:
// 10 above 2400, 24 above 2100, 32 otherwise.
func KFactor(current int) int {
	switch {
	case current > masterThreshold:
		return masterK
	case current > candidateThreshold:
		return candidateK
	default:
		return defaultK
	}
}

// ExpectedScore returns the probability-like expected score of the
// current player against the opponent: 1 / (1 + 10^((opp-cur)/400)).
func ExpectedScore(current, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(logisticBase, float64(opponent-current)/ratingSpread))
}

// NewRating computes the next rating from a battle outcome:
// round(current + K*(outcome - expected)).
//
// Halves round away from zero (math.Round). No floor or ceiling is
// applied; extreme inputs can in principle produce a negative rating.
// Outcomes outside {0, 0.5, 1} violate the caller contract and return
// ErrInvalidOutcome.
func NewRating(current, opponent int, outcome Outcome) (int, error) {
	if !outcome.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOutcome, float64(outcome))
	}

	k := float64(KFactor(current))
	expected := ExpectedScore(current, opponent)
	next := math.Round(float64(current) + k*(float64(outcome)-expected))
	return int(next), nil
}

// Opposite returns the opponent's outcome for a reported result.
func Opposite(o Outcome) Outcome {
	return Win - o
}
