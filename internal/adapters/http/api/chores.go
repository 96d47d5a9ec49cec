// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// ChoreDependencies defines the interface for chore CRUD and ordering.
type ChoreDependencies interface {
	AddChore(ctx context.Context, name string) (model.Chore, error)
	GetChore(ctx context.Context, id int64) (model.Chore, error)
	Chores(ctx context.Context) ([]model.Chore, error)
	UpdateChore(ctx context.Context, id int64, patch model.ChorePatch) (model.Chore, error)
	RemoveChore(ctx context.Context, id int64) error
	ReorderChores(ctx context.Context, ids []int64) error
}

// ChoresHandler handles chore requests.
type ChoresHandler struct {
	deps ChoreDependencies
}

// NewChoresHandler creates a new chores handler.
func NewChoresHandler(deps ChoreDependencies) *ChoresHandler {
	return &ChoresHandler{deps: deps}
}

// createChoreRequest mirrors the POST /chores body.
type createChoreRequest struct {
	Name string `json:"name"`
}

// patchChoreRequest mirrors the PATCH /chores/{id} body.
type patchChoreRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

// reorderRequest mirrors the POST /chores/reorder body. Display order
// follows the id order given.
type reorderRequest struct {
	IDs []int64 `json:"ids"`
}

// HandleChores handles GET /chores and POST /chores requests.
func (h *ChoresHandler) HandleChores(w http.ResponseWriter, r *http.Request) {
	const op = "api.chores"
	switch r.Method {
	case http.MethodGet:
		chores, err := h.deps.Chores(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, chores)
	case http.MethodPost:
		var req createChoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
			return
		}
		c, err := h.deps.AddChore(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	default:
		http.NotFound(w, r)
	}
}

// HandleReorder handles POST /chores/reorder requests.
func (h *ChoresHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	const op = "api.reorder_chores"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.ReorderChores(r.Context(), req.IDs); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "reordered", Applied: true})
}

// HandleChoreByID handles GET, PATCH and DELETE on /chores/{id}.
func (h *ChoresHandler) HandleChoreByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.chore_by_id"
	path := strings.TrimPrefix(r.URL.Path, "/chores/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id, err := parseID(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.deps.GetChore(r.Context(), id)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPatch:
		var req patchChoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		c, err := h.deps.UpdateChore(r.Context(), id, model.ChorePatch{Name: req.Name, SortOrder: req.SortOrder})
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := h.deps.RemoveChore(r.Context(), id); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "deleted", Applied: true})
	default:
		http.NotFound(w, r)
	}
}
