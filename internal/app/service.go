// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/smurf-frank/chorechart/internal/adapters/repository"
	"github.com/smurf-frank/chorechart/internal/domain/board"
	"github.com/smurf-frank/chorechart/internal/domain/hierarchy"
	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/internal/domain/rotation"
	"github.com/smurf-frank/chorechart/pkg/logger"
)

// Settings keys the engine reads and writes.
const (
	SettingWeekStartDay      = "week_start_day"
	SettingMaxMarkersPerCell = "max_markers_per_cell"
)

// Service implements the board engine behind the HTTP API: actor and chore
// CRUD with cascades, hierarchy-validated membership, the assignment board
// and the rotation scheduler, all against one row store.
//
// The engine is a single logical writer: every compound mutation
// (validate-then-add, cascade delete, rotation, move) runs inside one
// critical section so no observer sees a half-applied cascade.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	validator hierarchy.Validator
	board     *board.Board
	planner   rotation.Planner

	// Configuration
	storeBackend      string
	sqlitePath        string
	maxNesting        int
	defaultMaxMarkers int
	defaultWeekStart  model.Day
	seedDemoData      bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a row store, bypassing backend construction in Start.
// Tests use this for a fresh store per test.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreBackend selects the store built on Start: "memory" or "sqlite".
func WithStoreBackend(backend string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storeBackend = backend
		}
	}
}

// WithSQLitePath sets the database file for the sqlite backend.
func WithSQLitePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithMaxNesting overrides the maximum group-only chain length.
func WithMaxNesting(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxNesting = n
		}
	}
}

// WithDefaultMaxMarkers sets the capacity seeded on first run.
func WithDefaultMaxMarkers(n int) Option {
	return func(s *Service) {
		if n >= board.MinCapacity {
			s.defaultMaxMarkers = n
		}
	}
}

// WithDefaultWeekStart sets the week-start day seeded on first run.
func WithDefaultWeekStart(d model.Day) Option {
	return func(s *Service) {
		if d.Valid() {
			s.defaultWeekStart = d
		}
	}
}

// WithSeedDemoData enables demo people/chores when the store is empty.
func WithSeedDemoData(enabled bool) Option {
	return func(s *Service) {
		s.seedDemoData = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeBackend:      "memory",
		sqlitePath:        "chorechart.db",
		maxNesting:        3,
		defaultMaxMarkers: board.DefaultCapacity,
		defaultWeekStart:  model.Monday,
		logger:            nil, // set on Start when not injected
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store, validator, board and planner.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		switch s.storeBackend {
		case "sqlite":
			store, err := repository.NewSQLiteStore(s.sqlitePath)
			if err != nil {
				return err
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
		default:
			s.store = repository.NewMemStore()
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	s.validator = hierarchy.New(
		&memberSource{store: s.store},
		hierarchy.WithMaxNesting(s.maxNesting),
	)
	s.board = board.New(s.store,
		board.WithCapacityFunc(s.cellCapacity),
		board.WithLogger(s.logger.Named("board")),
	)
	s.planner = rotation.New()

	if err := s.seedDefaults(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "chore board service started",
		logger.String("backend", s.storeBackend),
		logger.Int("maxNesting", s.maxNesting),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "store close failed", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "chore board service stopped")
}

// cellCapacity resolves the board capacity from the settings relation.
// Runs inside the service critical section; reads the store directly.
func (s *Service) cellCapacity(ctx context.Context) int {
	raw, err := s.store.GetSetting(ctx, SettingMaxMarkersPerCell)
	if err != nil {
		return s.defaultMaxMarkers
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return s.defaultMaxMarkers
	}
	return board.ClampCapacity(n)
}

// seedDefaults writes default settings, and demo rows when enabled, into
// an empty store.
func (s *Service) seedDefaults(ctx context.Context) error {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return err
	}
	if _, ok := settings[SettingWeekStartDay]; !ok {
		if err := s.store.SetSetting(ctx, SettingWeekStartDay, s.defaultWeekStart.String()); err != nil {
			return err
		}
	}
	if _, ok := settings[SettingMaxMarkersPerCell]; !ok {
		clamped := board.ClampCapacity(s.defaultMaxMarkers)
		if err := s.store.SetSetting(ctx, SettingMaxMarkersPerCell, strconv.Itoa(clamped)); err != nil {
			return err
		}
	}

	if !s.seedDemoData {
		return nil
	}

	actors, err := s.store.Actors(ctx, "")
	if err != nil {
		return err
	}
	if len(actors) == 0 {
		demo := []model.Actor{
			{Kind: model.KindPerson, Name: "User 1", Initials: "U1", Color: "#0084ff"},
			{Kind: model.KindPerson, Name: "User 2", Initials: "U2", Color: "#ff4d4d"},
			{Kind: model.KindPerson, Name: "User 3", Initials: "U3", Color: "#2ecc71"},
		}
		for _, a := range demo {
			if _, err := s.store.InsertActor(ctx, a); err != nil {
				return err
			}
		}
	}

	chores, err := s.store.Chores(ctx)
	if err != nil {
		return err
	}
	if len(chores) == 0 {
		for i, name := range []string{"Dishes", "Laundry", "Vacuuming", "Trash"} {
			if _, err := s.store.InsertChore(ctx, model.Chore{Name: name, SortOrder: i + 1}); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"backend": s.storeBackend,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	if actors, err := s.store.Actors(ctx, ""); err == nil {
		stats["actors"] = len(actors)
	}
	if chores, err := s.store.Chores(ctx); err == nil {
		stats["chores"] = len(chores)
	}
	if rows, err := s.store.Assignments(ctx); err == nil {
		stats["assignments"] = len(rows)
	}
	return stats
}

// memberSource adapts the row store to the hierarchy.MemberSource
// interface. Dangling member ids resolve to nothing instead of failing:
// an interrupted cascade may leave them behind and the graph walk must
// tolerate that.
type memberSource struct {
	store repository.Store
}

func (m *memberSource) Actor(ctx context.Context, id int64) (model.Actor, bool) {
	a, err := m.store.GetActor(ctx, id)
	if err != nil {
		return model.Actor{}, false
	}
	return a, true
}

func (m *memberSource) Members(ctx context.Context, groupID int64) []model.Actor {
	group, err := m.store.GetActor(ctx, groupID)
	if err != nil || !group.IsGroup() {
		return nil
	}

	members := make([]model.Actor, 0, len(group.MemberIDs()))
	for _, id := range group.MemberIDs() {
		if a, err := m.store.GetActor(ctx, id); err == nil {
			members = append(members, a)
		}
	}
	return members
}

func (m *memberSource) Parents(ctx context.Context, id int64) []model.Actor {
	groups, err := m.store.Actors(ctx, model.KindGroup)
	if err != nil {
		return nil
	}

	var parents []model.Actor
	for _, g := range groups {
		if g.HasMember(id) {
			parents = append(parents, g)
		}
	}
	return parents
}
