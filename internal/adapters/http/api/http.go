// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/smurf-frank/chorechart/internal/adapters/repository"
	service "github.com/smurf-frank/chorechart/internal/app"
	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ActorDependencies
	GroupDependencies
	ChoreDependencies
	BoardDependencies
	RotationDependencies
	SettingsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	actorsHandler   *ActorsHandler
	groupsHandler   *GroupsHandler
	choresHandler   *ChoresHandler
	boardHandler    *BoardHandler
	rotationHandler *RotationHandler
	settingsHandler *SettingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		actorsHandler:   NewActorsHandler(deps),
		groupsHandler:   NewGroupsHandler(deps),
		choresHandler:   NewChoresHandler(deps),
		boardHandler:    NewBoardHandler(deps),
		rotationHandler: NewRotationHandler(deps),
		settingsHandler: NewSettingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/actors", MetricsMiddleware(s.actorsHandler.HandleActors, "actors"))
	mux.HandleFunc("/actors/", MetricsMiddleware(s.actorsHandler.HandleActorByID, "actor"))
	mux.HandleFunc("/groups/can-add", MetricsMiddleware(s.groupsHandler.HandleCanAdd, "groups_can_add"))
	mux.HandleFunc("/groups/", MetricsMiddleware(s.groupsHandler.HandleGroupSubtree, "group_members"))
	mux.HandleFunc("/chores", MetricsMiddleware(s.choresHandler.HandleChores, "chores"))
	mux.HandleFunc("/chores/reorder", MetricsMiddleware(s.choresHandler.HandleReorder, "chores_reorder"))
	mux.HandleFunc("/chores/", MetricsMiddleware(s.choresHandler.HandleChoreByID, "chore"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/board/assign", MetricsMiddleware(s.boardHandler.HandleAssign, "board_assign"))
	mux.HandleFunc("/board/set", MetricsMiddleware(s.boardHandler.HandleSet, "board_set"))
	mux.HandleFunc("/board/move", MetricsMiddleware(s.boardHandler.HandleMove, "board_move"))
	mux.HandleFunc("/board/clear", MetricsMiddleware(s.boardHandler.HandleClear, "board_clear"))
	mux.HandleFunc("/board/rotation", MetricsMiddleware(s.rotationHandler.HandleRotation, "board_rotation"))
	mux.HandleFunc("/settings", MetricsMiddleware(s.settingsHandler.HandleSettings, "settings"))
}

// opResponse acknowledges a board or membership mutation. Applied is false
// when the engine declined the change without it being a caller error.
type opResponse struct {
	Status  string `json:"status"`
	Applied bool   `json:"applied"`
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

// writeServiceError translates engine errors to HTTP statuses: missing
// rows are 404, malformed references 400, everything else 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
	case errors.Is(err, model.ErrUnknownDay),
		errors.Is(err, service.ErrNotGroup),
		errors.Is(err, service.ErrBadKind):
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
	}
}

// parseID reads a decimal row id.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadRequest
	}
	return id, nil
}

// parseDayValue accepts either a day index ("0".."6") or a short name
// ("Mon".."Sun").
func parseDayValue(raw string) (model.Day, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		d := model.Day(n)
		if !d.Valid() {
			return 0, model.ErrUnknownDay
		}
		return d, nil
	}
	return model.ParseDay(raw)
}
