// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codeduel/arena/internal/adapters/repository"
	"github.com/codeduel/arena/internal/domain/dedupe"
	"github.com/codeduel/arena/internal/domain/model"
	"github.com/codeduel/arena/internal/domain/rating"
	"github.com/codeduel/arena/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// EnqueueResult pushes a match result for async processing.
	// Returns false on backpressure.
	EnqueueResult(ctx context.Context, r model.MatchResult) bool

	// Read operations expose rating data.
	PlayerRating(ctx context.Context, playerID string) (int, error)
	Standings(ctx context.Context, n int) ([]Entry, error)

	// CreateBattle issues a new battle with a unique join code and a
	// difficulty target for the host.
	CreateBattle(ctx context.Context, hostID string) (session.Battle, error)
}

// Entry mirrors the read shape returned by standings queries.
type Entry = repository.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	resultsHandler   *ResultsHandler
	ratingHandler    *RatingHandler
	standingsHandler *StandingsHandler
	battlesHandler   *BattlesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxStandingsLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		resultsHandler:   NewResultsHandler(deps),
		ratingHandler:    NewRatingHandler(deps),
		standingsHandler: NewStandingsHandler(deps, maxStandingsLimit),
		battlesHandler:   NewBattlesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandlePostResult, "results"))
	mux.HandleFunc("/rating/", MetricsMiddleware(s.ratingHandler.HandleGetRating, "rating"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/battles", MetricsMiddleware(s.battlesHandler.HandlePostBattle, "battles"))
}

// resultRequest mirrors the JSON schema for POST /results.
type resultRequest struct {
	ResultID   string  `json:"result_id"`
	BattleID   string  `json:"battle_id"`
	PlayerID   string  `json:"player_id"`
	OpponentID string  `json:"opponent_id"`
	Outcome    float64 `json:"outcome"`
	TS         string  `json:"ts"`
}

func (r resultRequest) validate() error {
	switch {
	case strings.TrimSpace(r.ResultID) == "":
		return errors.New("missing result_id")
	case strings.TrimSpace(r.BattleID) == "":
		return errors.New("missing battle_id")
	case strings.TrimSpace(r.PlayerID) == "":
		return errors.New("missing player_id")
	case strings.TrimSpace(r.OpponentID) == "":
		return errors.New("missing opponent_id")
	case strings.TrimSpace(r.TS) == "":
		return errors.New("missing ts")
	}
	if r.PlayerID == r.OpponentID {
		return errors.New("player_id and opponent_id must differ")
	}
	if !rating.Outcome(r.Outcome).Valid() {
		return errors.New("outcome must be 0, 0.5 or 1")
	}
	if _, err := time.Parse(time.RFC3339, r.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

func (r resultRequest) toModel() model.MatchResult {
	ts, _ := time.Parse(time.RFC3339, r.TS)
	return model.MatchResult{
		ResultID:   r.ResultID,
		BattleID:   r.BattleID,
		PlayerID:   r.PlayerID,
		OpponentID: r.OpponentID,
		Outcome:    r.Outcome,
		TS:         ts,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
