// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/codeduel/arena/internal/adapters/repository"
)

// Default standings query constants.
const (
	defaultStandingsLimit = 10
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	Standings(ctx context.Context, n int) ([]Entry, error)
}

// StandingsHandler handles standings queries.
type StandingsHandler struct {
	deps     StandingsDependencies
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, maxLimit int) *StandingsHandler {
	if maxLimit <= 0 {
		maxLimit = defaultStandingsLimit
	}
	return &StandingsHandler{deps: deps, maxLimit: maxLimit}
}

// standingsEntry mirrors one row of GET /standings.
type standingsEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Rating   int    `json:"rating"`
}

// HandleGetStandings handles GET /standings?limit=N requests.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultStandingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	entries, err := h.deps.Standings(r.Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	rows := make([]standingsEntry, len(entries))
	for i, e := range entries {
		rows[i] = standingsEntry{Rank: e.Rank, PlayerID: e.PlayerID, Rating: e.Rating}
	}
	writeJSON(w, http.StatusOK, rows)
}
