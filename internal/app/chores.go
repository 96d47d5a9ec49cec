package service

import (
	"context"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/logger"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// AddChore creates a chore at the end of the display order.
func (s *Service) AddChore(ctx context.Context, name string) (model.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Chore{}, ErrNotStarted
	}

	maxOrder, err := s.store.MaxChoreOrder(ctx)
	if err != nil {
		return model.Chore{}, err
	}
	c := model.Chore{Name: name, SortOrder: maxOrder + 1}
	id, err := s.store.InsertChore(ctx, c)
	if err != nil {
		return model.Chore{}, err
	}
	c.ID = id
	s.logger.Debug(ctx, "chore added", logger.Int64("id", id), logger.String("name", name))
	return c, nil
}

// GetChore returns one chore by id.
func (s *Service) GetChore(ctx context.Context, id int64) (model.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Chore{}, ErrNotStarted
	}
	return s.store.GetChore(ctx, id)
}

// Chores lists chores in display order, sort order then id.
func (s *Service) Chores(ctx context.Context) ([]model.Chore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Chores(ctx)
}

// UpdateChore applies a partial patch and returns the updated chore.
func (s *Service) UpdateChore(ctx context.Context, id int64, patch model.ChorePatch) (model.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Chore{}, ErrNotStarted
	}
	if err := s.store.UpdateChore(ctx, id, patch); err != nil {
		return model.Chore{}, err
	}
	return s.store.GetChore(ctx, id)
}

// RemoveChore deletes a chore and its assignment rows.
func (s *Service) RemoveChore(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if _, err := s.store.GetChore(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteAssignmentsByChore(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteChore(ctx, id); err != nil {
		return err
	}

	metrics.RecordCascadeDelete("chore")
	s.logger.Info(ctx, "chore removed", logger.Int64("id", id))
	return nil
}

// ReorderChores rewrites sort orders to 1..n following the given id order.
// Ids that no longer exist are skipped without disturbing the sequence of
// the rest.
func (s *Service) ReorderChores(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	next := 1
	for _, id := range ids {
		if _, err := s.store.GetChore(ctx, id); err != nil {
			s.logger.Debug(ctx, "reorder skipped unknown chore", logger.Int64("id", id))
			continue
		}
		order := next
		if err := s.store.UpdateChore(ctx, id, model.ChorePatch{SortOrder: &order}); err != nil {
			return err
		}
		next++
	}
	return nil
}
