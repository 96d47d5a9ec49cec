package service

import (
	"context"
	"fmt"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/logger"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// cellKeyString is the map key of one board cell in read responses.
func cellKeyString(choreID int64, day model.Day) string {
	return fmt.Sprintf("%d-%d", choreID, int(day))
}

// AddAssignment places an actor's marker in one cell. Returns false without
// an error when the cell is full or already holds the marker.
func (s *Service) AddAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if err := s.checkCellRefs(ctx, choreID, day, actorID); err != nil {
		return false, err
	}
	return s.board.Add(ctx, choreID, day, actorID)
}

// RemoveAssignment removes one marker from one cell, idempotently.
func (s *Service) RemoveAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if !day.Valid() {
		return model.ErrUnknownDay
	}
	return s.board.Remove(ctx, choreID, day, actorID)
}

// SetAssignment replaces the cell's contents with the single given marker.
// The capacity limit never applies to a one-marker overwrite.
func (s *Service) SetAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.checkCellRefs(ctx, choreID, day, actorID); err != nil {
		return err
	}
	return s.board.Set(ctx, choreID, day, actorID)
}

// ClearAssignment empties one cell.
func (s *Service) ClearAssignment(ctx context.Context, choreID int64, day model.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if !day.Valid() {
		return model.ErrUnknownDay
	}
	return s.board.Clear(ctx, choreID, day)
}

// ClearAllAssignments empties the whole board. Actors, chores and settings
// are untouched.
func (s *Service) ClearAllAssignments(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	return s.board.ClearAll(ctx)
}

// MoveAssignment relocates one marker between cells. When the target
// rejects the marker the source keeps it and false is returned.
func (s *Service) MoveAssignment(ctx context.Context, from, to model.CellKey, actorID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if !from.Day.Valid() || !to.Day.Valid() {
		return false, model.ErrUnknownDay
	}
	return s.board.Move(ctx, from, to, actorID)
}

// Assignments returns the whole board keyed "choreID-dayIndex", each cell
// listing markers in insertion order. Rows whose actor no longer exists
// are skipped.
func (s *Service) Assignments(ctx context.Context) (map[string][]model.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	rows, err := s.store.Assignments(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]model.Marker)
	for _, row := range rows {
		a, err := s.store.GetActor(ctx, row.ActorID)
		if err != nil {
			continue
		}
		key := cellKeyString(row.ChoreID, row.Day)
		out[key] = append(out[key], model.Marker{
			ActorID:  a.ID,
			Name:     a.Name,
			Initials: a.Initials,
			Color:    a.Color,
			Kind:     a.Kind,
		})
	}
	return out, nil
}

// AssignGroupRotation writes a seven day round robin over the group's
// members into one chore's row, one member per day starting from the given
// member and day. Existing markers in those cells are overwritten. When the
// plan cannot be built, because the start member left the group or the day
// is invalid, the board is left untouched.
func (s *Service) AssignGroupRotation(ctx context.Context, choreID, groupID, startMemberID int64, startDay model.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if _, err := s.store.GetChore(ctx, choreID); err != nil {
		return err
	}
	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return err
	}

	slots, ok := s.planner.Plan(ctx, members, startMemberID, startDay)
	if !ok {
		s.logger.Info(ctx, "rotation plan aborted",
			logger.Int64("groupId", groupID),
			logger.Int64("startMemberId", startMemberID),
		)
		return nil
	}

	for _, slot := range slots {
		if err := s.board.Set(ctx, choreID, slot.Day, slot.ActorID); err != nil {
			return err
		}
	}

	metrics.RecordRotationApplied()
	s.logger.Info(ctx, "rotation applied",
		logger.Int64("choreId", choreID),
		logger.Int64("groupId", groupID),
		logger.Int("members", len(members)),
	)
	return nil
}

// checkCellRefs verifies the chore, day and actor of a cell write.
func (s *Service) checkCellRefs(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	if !day.Valid() {
		return model.ErrUnknownDay
	}
	if _, err := s.store.GetChore(ctx, choreID); err != nil {
		return err
	}
	if _, err := s.store.GetActor(ctx, actorID); err != nil {
		return err
	}
	return nil
}
