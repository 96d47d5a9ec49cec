// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// RotationDependencies defines the interface for the rotation scheduler.
type RotationDependencies interface {
	AssignGroupRotation(ctx context.Context, choreID, groupID, startMemberID int64, startDay model.Day) error
}

// RotationHandler handles rotation requests.
type RotationHandler struct {
	deps RotationDependencies
}

// NewRotationHandler creates a new rotation handler.
func NewRotationHandler(deps RotationDependencies) *RotationHandler {
	return &RotationHandler{deps: deps}
}

// rotationRequest mirrors the POST /board/rotation body. StartDay accepts
// a storage index ("0".."6") or a short day name ("Mon".."Sun").
type rotationRequest struct {
	ChoreID       int64  `json:"chore_id"`
	GroupID       int64  `json:"group_id"`
	StartMemberID int64  `json:"start_member_id"`
	StartDay      string `json:"start_day"`
}

// HandleRotation handles POST /board/rotation requests. A plan that cannot
// be built leaves the board untouched and still acknowledges with 200,
// Applied false is not distinguished here because the engine treats the
// aborted plan as a successful no-op.
func (h *RotationHandler) HandleRotation(w http.ResponseWriter, r *http.Request) {
	const op = "api.rotation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	startDay, err := parseDayValue(req.StartDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.AssignGroupRotation(r.Context(), req.ChoreID, req.GroupID, req.StartMemberID, startDay); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "rotated", Applied: true})
}
