// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codeduel/arena/internal/adapters/repository"
)

// RatingDependencies defines the interface for rating reads.
type RatingDependencies interface {
	PlayerRating(ctx context.Context, playerID string) (int, error)
}

// RatingHandler handles rating lookups.
type RatingHandler struct {
	deps RatingDependencies
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(deps RatingDependencies) *RatingHandler {
	return &RatingHandler{deps: deps}
}

// ratingResponse mirrors the JSON shape for GET /rating/{player_id}.
type ratingResponse struct {
	PlayerID string `json:"player_id"`
	Rating   int    `json:"rating"`
}

// HandleGetRating handles GET /rating/{player_id} requests.
func (h *RatingHandler) HandleGetRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rating/
	playerID := strings.TrimPrefix(r.URL.Path, "/rating/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	value, err := h.deps.PlayerRating(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{PlayerID: playerID, Rating: value})
}
