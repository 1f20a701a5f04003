// Package model contains domain models passed between layers.
package model

import "time"

// MatchResult represents the outcome of one battle round from the
// perspective of PlayerID. Fields mirror the JSON schema for /results.
type MatchResult struct {
	ResultID   string    // unique id for idempotency
	BattleID   string    // battle/session identifier
	PlayerID   string    // participant reporting the result
	OpponentID string    // the other participant
	Outcome    float64   // 0 loss, 0.5 draw, 1 win (PlayerID's score)
	TS         time.Time // result timestamp
}

// PlayerRating captures a participant's current rating used for standings.
type PlayerRating struct {
	PlayerID string
	Rating   int
}
