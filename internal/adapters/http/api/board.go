// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// BoardDependencies defines the interface for assignment board operations.
type BoardDependencies interface {
	AddAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (bool, error)
	RemoveAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error
	SetAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error
	ClearAssignment(ctx context.Context, choreID int64, day model.Day) error
	ClearAllAssignments(ctx context.Context) error
	MoveAssignment(ctx context.Context, from, to model.CellKey, actorID int64) (bool, error)
	Assignments(ctx context.Context) (map[string][]model.Marker, error)
	OrderedDays(ctx context.Context) ([]model.Day, error)
	MaxMarkersPerCell(ctx context.Context) (int, error)
}

// BoardHandler handles assignment board requests.
type BoardHandler struct {
	deps BoardDependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// boardResponse is the full read snapshot: every non-empty cell keyed
// "choreID-dayIndex", the days in display order, and the cell capacity.
type boardResponse struct {
	Cells      map[string][]model.Marker `json:"cells"`
	Days       []string                  `json:"days"`
	MaxMarkers int                       `json:"max_markers_per_cell"`
}

// cellRequest addresses one marker in one cell. Day is the storage index,
// 0 for Monday through 6 for Sunday, regardless of the display week start.
type cellRequest struct {
	ChoreID int64 `json:"chore_id"`
	Day     int   `json:"day"`
	ActorID int64 `json:"actor_id"`
}

func (c cellRequest) day() (model.Day, bool) {
	d := model.Day(c.Day)
	return d, d.Valid()
}

// clearRequest empties one cell, or the whole board when All is set.
type clearRequest struct {
	ChoreID int64 `json:"chore_id"`
	Day     int   `json:"day"`
	All     bool  `json:"all"`
}

// moveRequest relocates one marker between two cells.
type moveRequest struct {
	ActorID     int64 `json:"actor_id"`
	FromChoreID int64 `json:"from_chore_id"`
	FromDay     int   `json:"from_day"`
	ToChoreID   int64 `json:"to_chore_id"`
	ToDay       int   `json:"to_day"`
}

// HandleGetBoard handles GET /board requests.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_board"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	cells, err := h.deps.Assignments(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	days, err := h.deps.OrderedDays(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	capacity, err := h.deps.MaxMarkersPerCell(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	writeJSON(w, http.StatusOK, boardResponse{
		Cells:      cells,
		Days:       names,
		MaxMarkers: capacity,
	})
}

// HandleAssign handles POST /board/assign (add one marker) and
// DELETE /board/assign (remove one marker).
func (h *BoardHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	const op = "api.assign"
	var req cellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	day, ok := req.day()
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, model.ErrUnknownDay))
		return
	}

	switch r.Method {
	case http.MethodPost:
		added, err := h.deps.AddAssignment(r.Context(), req.ChoreID, day, req.ActorID)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		if !added {
			writeError(w, http.StatusConflict, "rejected", NewKind(op, ErrRejected))
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "assigned", Applied: true})
	case http.MethodDelete:
		if err := h.deps.RemoveAssignment(r.Context(), req.ChoreID, day, req.ActorID); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "removed", Applied: true})
	default:
		http.NotFound(w, r)
	}
}

// HandleSet handles POST /board/set requests: the cell ends up holding
// exactly the one given marker.
func (h *BoardHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req cellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	day, ok := req.day()
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, model.ErrUnknownDay))
		return
	}
	if err := h.deps.SetAssignment(r.Context(), req.ChoreID, day, req.ActorID); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "set", Applied: true})
}

// HandleMove handles POST /board/move requests. A full or duplicate target
// cell declines the move and the marker stays where it was.
func (h *BoardHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.move_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	from := model.CellKey{ChoreID: req.FromChoreID, Day: model.Day(req.FromDay)}
	to := model.CellKey{ChoreID: req.ToChoreID, Day: model.Day(req.ToDay)}
	if !from.Day.Valid() || !to.Day.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, model.ErrUnknownDay))
		return
	}

	moved, err := h.deps.MoveAssignment(r.Context(), from, to, req.ActorID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if !moved {
		writeError(w, http.StatusConflict, "rejected", NewKind(op, ErrRejected))
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "moved", Applied: true})
}

// HandleClear handles POST /board/clear requests.
func (h *BoardHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if req.All {
		if err := h.deps.ClearAllAssignments(r.Context()); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "cleared", Applied: true})
		return
	}

	day := model.Day(req.Day)
	if !day.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, model.ErrUnknownDay))
		return
	}
	if err := h.deps.ClearAssignment(r.Context(), req.ChoreID, day); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "cleared", Applied: true})
}
