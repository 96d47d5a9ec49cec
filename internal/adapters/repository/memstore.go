package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// MemStore implements Store entirely in memory. It is the default backend
// and the one tests use for isolation: every New call is a fresh, empty
// universe.
type MemStore struct {
	mu sync.RWMutex

	actors map[int64]model.Actor
	chores map[int64]model.Chore
	// assignment rows keyed by row id; row ids are also the insertion order
	assignments map[int64]AssignmentRow
	settings    map[string]string

	nextActorID      int64
	nextChoreID      int64
	nextAssignmentID int64

	closed bool
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		actors:      make(map[int64]model.Actor),
		chores:      make(map[int64]model.Chore),
		assignments: make(map[int64]AssignmentRow),
		settings:    make(map[string]string),
	}
}

func (s *MemStore) InsertActor(ctx context.Context, a model.Actor) (int64, error) {
	defer trackStoreOp("insert_actor", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	s.nextActorID++
	a.ID = s.nextActorID
	s.actors[a.ID] = a.Clone()
	metrics.UpdateActorCount(len(s.actors))
	return a.ID, nil
}

func (s *MemStore) GetActor(ctx context.Context, id int64) (model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Actor{}, ErrClosed
	}

	a, ok := s.actors[id]
	if !ok {
		return model.Actor{}, ErrNotFound
	}
	return a.Clone(), nil
}

func (s *MemStore) UpdateActor(ctx context.Context, id int64, patch model.ActorPatch) error {
	defer trackStoreOp("update_actor", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	a, ok := s.actors[id]
	if !ok {
		return ErrNotFound
	}
	s.actors[id] = patch.Apply(a)
	return nil
}

func (s *MemStore) DeleteActor(ctx context.Context, id int64) error {
	defer trackStoreOp("delete_actor", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	delete(s.actors, id)
	metrics.UpdateActorCount(len(s.actors))
	return nil
}

func (s *MemStore) Actors(ctx context.Context, kind model.ActorKind) ([]model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]model.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		if kind != "" && a.Kind != kind {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) InsertChore(ctx context.Context, c model.Chore) (int64, error) {
	defer trackStoreOp("insert_chore", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	s.nextChoreID++
	c.ID = s.nextChoreID
	s.chores[c.ID] = c
	metrics.UpdateChoreCount(len(s.chores))
	return c.ID, nil
}

func (s *MemStore) GetChore(ctx context.Context, id int64) (model.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Chore{}, ErrClosed
	}

	c, ok := s.chores[id]
	if !ok {
		return model.Chore{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) UpdateChore(ctx context.Context, id int64, patch model.ChorePatch) error {
	defer trackStoreOp("update_chore", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	c, ok := s.chores[id]
	if !ok {
		return ErrNotFound
	}
	s.chores[id] = patch.Apply(c)
	return nil
}

func (s *MemStore) DeleteChore(ctx context.Context, id int64) error {
	defer trackStoreOp("delete_chore", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	delete(s.chores, id)
	metrics.UpdateChoreCount(len(s.chores))
	return nil
}

func (s *MemStore) Chores(ctx context.Context) ([]model.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]model.Chore, 0, len(s.chores))
	for _, c := range s.chores {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) MaxChoreOrder(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	maxOrder := 0
	for _, c := range s.chores {
		if c.SortOrder > maxOrder {
			maxOrder = c.SortOrder
		}
	}
	return maxOrder, nil
}

func (s *MemStore) InsertAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (int64, error) {
	defer trackStoreOp("insert_assignment", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	s.nextAssignmentID++
	row := AssignmentRow{ID: s.nextAssignmentID, ChoreID: choreID, Day: day, ActorID: actorID}
	s.assignments[row.ID] = row
	metrics.UpdateAssignmentCount(len(s.assignments))
	return row.ID, nil
}

func (s *MemStore) DeleteAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	return s.deleteAssignments("delete_assignment", func(r AssignmentRow) bool {
		return r.ChoreID == choreID && r.Day == day && r.ActorID == actorID
	})
}

func (s *MemStore) DeleteCell(ctx context.Context, choreID int64, day model.Day) error {
	return s.deleteAssignments("delete_cell", func(r AssignmentRow) bool {
		return r.ChoreID == choreID && r.Day == day
	})
}

func (s *MemStore) DeleteAssignmentsByActor(ctx context.Context, actorID int64) error {
	return s.deleteAssignments("delete_assignments_by_actor", func(r AssignmentRow) bool {
		return r.ActorID == actorID
	})
}

func (s *MemStore) DeleteAssignmentsByChore(ctx context.Context, choreID int64) error {
	return s.deleteAssignments("delete_assignments_by_chore", func(r AssignmentRow) bool {
		return r.ChoreID == choreID
	})
}

func (s *MemStore) DeleteAllAssignments(ctx context.Context) error {
	return s.deleteAssignments("delete_all_assignments", func(AssignmentRow) bool { return true })
}

// deleteAssignments removes every row matching the predicate. Empty
// matches are not an error.
func (s *MemStore) deleteAssignments(op string, match func(AssignmentRow) bool) error {
	defer trackStoreOp(op, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for id, row := range s.assignments {
		if match(row) {
			delete(s.assignments, id)
		}
	}
	metrics.UpdateAssignmentCount(len(s.assignments))
	return nil
}

func (s *MemStore) Assignments(ctx context.Context) ([]AssignmentRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]AssignmentRow, 0, len(s.assignments))
	for _, row := range s.assignments {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Cell(ctx context.Context, choreID int64, day model.Day) ([]int64, error) {
	rows, err := s.Assignments(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, 2)
	for _, row := range rows {
		if row.ChoreID == choreID && row.Day == day {
			ids = append(ids, row.ActorID)
		}
	}
	return ids, nil
}

func (s *MemStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}

	v, ok := s.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemStore) SetSetting(ctx context.Context, key, value string) error {
	defer trackStoreOp("set_setting", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.settings[key] = value
	return nil
}

func (s *MemStore) Settings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

// Close marks the store closed; further calls return ErrClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// trackStoreOp records write latency for one store operation.
func trackStoreOp(op string, start time.Time) {
	metrics.RecordStoreOpLatency(op, float64(time.Since(start).Milliseconds()))
}
