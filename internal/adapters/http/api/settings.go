// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// SettingsDependencies defines the interface for chart settings.
type SettingsDependencies interface {
	Settings(ctx context.Context) (map[string]string, error)
	SetSetting(ctx context.Context, key, value string) error
	WeekStartDay(ctx context.Context) (model.Day, error)
	SetWeekStartDay(ctx context.Context, d model.Day) error
	MaxMarkersPerCell(ctx context.Context) (int, error)
	SetMaxMarkersPerCell(ctx context.Context, n int) error
}

// SettingsHandler handles settings requests.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

// settingsResponse is the full settings map plus the two typed values the
// engine interprets, already parsed and clamped.
type settingsResponse struct {
	Values            map[string]string `json:"values"`
	WeekStartDay      string            `json:"week_start_day"`
	MaxMarkersPerCell int               `json:"max_markers_per_cell"`
}

// putSettingsRequest mirrors the PUT /settings body. Typed fields route
// through clamping setters; Values carries free-form keys such as chart
// titles.
type putSettingsRequest struct {
	WeekStartDay      *string           `json:"week_start_day"`
	MaxMarkersPerCell *int              `json:"max_markers_per_cell"`
	Values            map[string]string `json:"values"`
}

// HandleSettings handles GET /settings and PUT /settings requests.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SettingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_settings"
	values, err := h.deps.Settings(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	start, err := h.deps.WeekStartDay(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	capacity, err := h.deps.MaxMarkersPerCell(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		Values:            values,
		WeekStartDay:      start.String(),
		MaxMarkersPerCell: capacity,
	})
}

func (h *SettingsHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_settings"
	var req putSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if req.WeekStartDay != nil {
		d, err := parseDayValue(*req.WeekStartDay)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetWeekStartDay(r.Context(), d); err != nil {
			writeServiceError(w, op, err)
			return
		}
	}
	if req.MaxMarkersPerCell != nil {
		if err := h.deps.SetMaxMarkersPerCell(r.Context(), *req.MaxMarkersPerCell); err != nil {
			writeServiceError(w, op, err)
			return
		}
	}
	for key, value := range req.Values {
		if key == "" {
			continue
		}
		if err := h.deps.SetSetting(r.Context(), key, value); err != nil {
			writeServiceError(w, op, err)
			return
		}
	}

	h.handleGet(w, r)
}
