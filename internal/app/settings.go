package service

import (
	"context"
	"strconv"

	"github.com/smurf-frank/chorechart/internal/domain/board"
	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// WeekStartDay returns the configured display week start. Missing or
// unparseable values fall back to the configured default.
func (s *Service) WeekStartDay(ctx context.Context) (model.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Monday, ErrNotStarted
	}
	raw, err := s.store.GetSetting(ctx, SettingWeekStartDay)
	if err != nil {
		return s.defaultWeekStart, nil
	}
	d, err := model.ParseDay(raw)
	if err != nil {
		return s.defaultWeekStart, nil
	}
	return d, nil
}

// SetWeekStartDay stores the display week start.
func (s *Service) SetWeekStartDay(ctx context.Context, d model.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if !d.Valid() {
		return model.ErrUnknownDay
	}
	return s.store.SetSetting(ctx, SettingWeekStartDay, d.String())
}

// OrderedDays returns the seven days in display order, rotated so the
// configured week start comes first. Storage day indexes are unaffected.
func (s *Service) OrderedDays(ctx context.Context) ([]model.Day, error) {
	start, err := s.WeekStartDay(ctx)
	if err != nil {
		return nil, err
	}
	return model.WeekFrom(start), nil
}

// MaxMarkersPerCell returns the clamped per-cell capacity.
func (s *Service) MaxMarkersPerCell(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, ErrNotStarted
	}
	return s.cellCapacity(ctx), nil
}

// SetMaxMarkersPerCell stores the per-cell capacity, clamped to the legal
// range. Existing over-capacity cells keep their markers; the limit gates
// additions only.
func (s *Service) SetMaxMarkersPerCell(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	clamped := board.ClampCapacity(n)
	return s.store.SetSetting(ctx, SettingMaxMarkersPerCell, strconv.Itoa(clamped))
}

// Setting returns one raw setting value.
func (s *Service) Setting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", ErrNotStarted
	}
	return s.store.GetSetting(ctx, key)
}

// SetSetting upserts one raw setting value. The engine-owned keys go
// through their typed setters for clamping; this passthrough serves
// display-only keys like chart titles.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	return s.store.SetSetting(ctx, key, value)
}

// Settings returns all settings as a key/value map.
func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Settings(ctx)
}
