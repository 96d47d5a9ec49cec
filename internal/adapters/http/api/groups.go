// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// GroupDependencies defines the interface for group membership operations.
type GroupDependencies interface {
	GroupMembers(ctx context.Context, groupID int64) ([]model.Actor, error)
	CanAddMember(ctx context.Context, groupID, candidateID int64) (bool, error)
	AddMember(ctx context.Context, groupID, memberID int64) (bool, error)
	RemoveMember(ctx context.Context, groupID, memberID int64) error
	GroupDepth(ctx context.Context, id int64) (int, error)
	GroupHeight(ctx context.Context, id int64) (int, error)
}

// GroupsHandler handles group membership requests.
type GroupsHandler struct {
	deps GroupDependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupDependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// canAddResponse mirrors the GET /groups/can-add reply.
type canAddResponse struct {
	Allowed bool `json:"allowed"`
}

// nestingResponse mirrors the GET /groups/{id}/nesting reply.
type nestingResponse struct {
	Depth  int `json:"depth"`
	Height int `json:"height"`
}

// addMemberRequest mirrors the POST /groups/{id}/members body.
type addMemberRequest struct {
	MemberID int64 `json:"member_id"`
}

// HandleCanAdd handles GET /groups/can-add?group_id=&candidate_id=.
// It is a pure dry-run: the reply says whether AddMember would succeed.
func (h *GroupsHandler) HandleCanAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.can_add_member"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	groupID, err := parseID(r.URL.Query().Get("group_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	candidateID, err := parseID(r.URL.Query().Get("candidate_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	allowed, err := h.deps.CanAddMember(r.Context(), groupID, candidateID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, canAddResponse{Allowed: allowed})
}

// HandleGroupSubtree routes /groups/{id}/members, /groups/{id}/members/{mid}
// and /groups/{id}/nesting.
func (h *GroupsHandler) HandleGroupSubtree(w http.ResponseWriter, r *http.Request) {
	const op = "api.group_subtree"
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/groups/"), "/")
	if len(parts) < 2 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	groupID, err := parseID(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "members":
		h.handleMembers(w, r, groupID)
	case len(parts) == 3 && parts[1] == "members":
		h.handleMemberByID(w, r, groupID, parts[2])
	case len(parts) == 2 && parts[1] == "nesting":
		h.handleNesting(w, r, groupID)
	default:
		http.NotFound(w, r)
	}
}

func (h *GroupsHandler) handleMembers(w http.ResponseWriter, r *http.Request, groupID int64) {
	const op = "api.group_members"
	switch r.Method {
	case http.MethodGet:
		members, err := h.deps.GroupMembers(r.Context(), groupID)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	case http.MethodPost:
		var req addMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if req.MemberID <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		added, err := h.deps.AddMember(r.Context(), groupID, req.MemberID)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		if !added {
			writeError(w, http.StatusConflict, "rejected", NewKind(op, ErrRejected))
			return
		}
		writeJSON(w, http.StatusOK, opResponse{Status: "added", Applied: true})
	default:
		http.NotFound(w, r)
	}
}

func (h *GroupsHandler) handleMemberByID(w http.ResponseWriter, r *http.Request, groupID int64, rawMemberID string) {
	const op = "api.group_member"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	memberID, err := parseID(rawMemberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.RemoveMember(r.Context(), groupID, memberID); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opResponse{Status: "removed", Applied: true})
}

func (h *GroupsHandler) handleNesting(w http.ResponseWriter, r *http.Request, groupID int64) {
	const op = "api.group_nesting"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	depth, err := h.deps.GroupDepth(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	height, err := h.deps.GroupHeight(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, nestingResponse{Depth: depth, Height: height})
}
