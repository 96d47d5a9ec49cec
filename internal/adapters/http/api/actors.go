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

// ActorDependencies defines the interface for actor CRUD.
type ActorDependencies interface {
	AddActor(ctx context.Context, a model.Actor) (model.Actor, error)
	GetActor(ctx context.Context, id int64) (model.Actor, error)
	Actors(ctx context.Context, kind model.ActorKind) ([]model.Actor, error)
	UpdateActor(ctx context.Context, id int64, patch model.ActorPatch) (model.Actor, error)
	RemoveActor(ctx context.Context, id int64) error
}

// ActorsHandler handles actor collection and item requests.
type ActorsHandler struct {
	deps ActorDependencies
}

// NewActorsHandler creates a new actors handler.
func NewActorsHandler(deps ActorDependencies) *ActorsHandler {
	return &ActorsHandler{deps: deps}
}

// createActorRequest mirrors the POST /actors body.
type createActorRequest struct {
	Kind         string  `json:"kind"`
	Name         string  `json:"name"`
	Initials     string  `json:"initials"`
	Color        string  `json:"color"`
	ShowAsMarker bool    `json:"show_as_marker"`
	MemberIDs    []int64 `json:"member_ids"`
}

func (c createActorRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Kind) == "":
		return errors.New("missing kind")
	case strings.TrimSpace(c.Name) == "":
		return errors.New("missing name")
	}
	return nil
}

// patchActorRequest mirrors the PATCH /actors/{id} body. Absent fields
// keep their stored values.
type patchActorRequest struct {
	Name         *string  `json:"name"`
	Initials     *string  `json:"initials"`
	Color        *string  `json:"color"`
	ShowAsMarker *bool    `json:"show_as_marker"`
	MemberIDs    *[]int64 `json:"member_ids"`
}

func (p patchActorRequest) toPatch() model.ActorPatch {
	patch := model.ActorPatch{
		Name:     p.Name,
		Initials: p.Initials,
		Color:    p.Color,
	}
	if p.ShowAsMarker != nil || p.MemberIDs != nil {
		patch.Group = &model.GroupPatch{
			ShowAsMarker: p.ShowAsMarker,
			MemberIDs:    p.MemberIDs,
		}
	}
	return patch
}

// HandleActors handles GET /actors and POST /actors requests.
func (h *ActorsHandler) HandleActors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ActorsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_actors"
	kind := model.ActorKind(r.URL.Query().Get("kind"))
	actors, err := h.deps.Actors(r.Context(), kind)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, actors)
}

func (h *ActorsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_actor"
	var req createActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a := model.Actor{
		Kind:     model.ActorKind(req.Kind),
		Name:     req.Name,
		Initials: req.Initials,
		Color:    req.Color,
	}
	if a.Kind == model.KindGroup {
		a.Group = &model.GroupData{
			MemberIDs:    req.MemberIDs,
			ShowAsMarker: req.ShowAsMarker,
		}
	}

	created, err := h.deps.AddActor(r.Context(), a)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleActorByID handles GET, PATCH and DELETE on /actors/{id}.
func (h *ActorsHandler) HandleActorByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.actor_by_id"
	path := strings.TrimPrefix(r.URL.Path, "/actors/")
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
		a, err := h.deps.GetActor(r.Context(), id)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	case http.MethodPatch:
		var req patchActorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		a, err := h.deps.UpdateActor(r.Context(), id, req.toPatch())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	case http.MethodDelete:
		if err := h.deps.RemoveActor(r.Context(), id); err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "deleted", Applied: true})
	default:
		http.NotFound(w, r)
	}
}
