// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/codeduel/arena/internal/domain/session"
)

// BattleDependencies defines the interface for battle creation.
type BattleDependencies interface {
	CreateBattle(ctx context.Context, hostID string) (session.Battle, error)
}

// BattlesHandler handles battle creation.
type BattlesHandler struct {
	deps BattleDependencies
}

// NewBattlesHandler creates a new battles handler.
func NewBattlesHandler(deps BattleDependencies) *BattlesHandler {
	return &BattlesHandler{deps: deps}
}

// battleRequest mirrors the JSON schema for POST /battles.
type battleRequest struct {
	HostID string `json:"host_id"`
}

// battleResponse mirrors the JSON shape returned on creation.
type battleResponse struct {
	BattleID         string `json:"battle_id"`
	JoinCode         string `json:"join_code"`
	TargetDifficulty int    `json:"target_difficulty"`
}

// HandlePostBattle handles POST /battles requests.
func (h *BattlesHandler) HandlePostBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_battle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req battleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.HostID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing host_id")))
		return
	}

	battle, err := h.deps.CreateBattle(r.Context(), req.HostID)
	if err != nil {
		if errors.Is(err, session.ErrCodeSpaceExhausted) {
			writeError(w, http.StatusServiceUnavailable, "code_space_exhausted", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusCreated, battleResponse{
		BattleID:         battle.ID,
		JoinCode:         battle.Code,
		TargetDifficulty: battle.Difficulty,
	})
}
