// Package board manages the many-to-many relation between board cells and
// actors under a per-cell capacity.
package board

import (
	"context"

	"github.com/smurf-frank/chorechart/internal/domain/model"
	"github.com/smurf-frank/chorechart/pkg/logger"
	"github.com/smurf-frank/chorechart/pkg/metrics"
)

// Capacity bounds and default for markers per cell.
const (
	MinCapacity     = 0
	MaxCapacity     = 32
	DefaultCapacity = 2
)

// CellStore is the slice of the row store the board writes through.
type CellStore interface {
	Cell(ctx context.Context, choreID int64, day model.Day) ([]int64, error)
	InsertAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (int64, error)
	DeleteAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error
	DeleteCell(ctx context.Context, choreID int64, day model.Day) error
	DeleteAllAssignments(ctx context.Context) error
}

// CapacityFunc resolves the current per-cell capacity. The board clamps
// whatever it returns into [MinCapacity, MaxCapacity].
type CapacityFunc func(ctx context.Context) int

// Board enforces cell capacity and duplicate rejection on top of a dumb
// cell store. Business rejections are boolean results, not errors.
type Board struct {
	store    CellStore
	capacity CapacityFunc
	logger   logger.Logger
}

// Option applies a configuration option to the Board.
type Option func(*Board)

// WithCapacityFunc sets the capacity resolver, typically backed by the
// max-markers setting.
func WithCapacityFunc(fn CapacityFunc) Option {
	return func(b *Board) {
		if fn != nil {
			b.capacity = fn
		}
	}
}

// WithLogger sets a custom logger for the board.
func WithLogger(l logger.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// New constructs a Board over the given cell store.
func New(store CellStore, opts ...Option) *Board {
	b := &Board{
		store:    store,
		capacity: func(context.Context) int { return DefaultCapacity },
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("board")
	}
	return b
}

// ClampCapacity forces n into the legal capacity range.
func ClampCapacity(n int) int {
	if n < MinCapacity {
		return MinCapacity
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}

// Add inserts actorID into the cell. It returns (false, nil) without
// writing when the cell is at capacity or already holds the actor.
func (b *Board) Add(ctx context.Context, choreID int64, day model.Day, actorID int64) (bool, error) {
	occupants, err := b.store.Cell(ctx, choreID, day)
	if err != nil {
		return false, err
	}

	if len(occupants) >= ClampCapacity(b.capacity(ctx)) {
		metrics.RecordBoardRejection("capacity")
		b.logger.Debug(ctx, "cell at capacity",
			logger.Int64("choreID", choreID),
			logger.Int("day", int(day)),
		)
		return false, nil
	}
	for _, id := range occupants {
		if id == actorID {
			metrics.RecordBoardRejection("duplicate")
			return false, nil
		}
	}

	if _, err := b.store.InsertAssignment(ctx, choreID, day, actorID); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes one cell membership. Removing an absent membership is a
// no-op, not an error.
func (b *Board) Remove(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	return b.store.DeleteAssignment(ctx, choreID, day, actorID)
}

// Set collapses the cell to exactly one actor: clear everything, then
// insert. Used by legacy single-occupant flows and the rotation scheduler,
// which owns whole cells when it writes.
func (b *Board) Set(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	if err := b.store.DeleteCell(ctx, choreID, day); err != nil {
		return err
	}
	_, err := b.store.InsertAssignment(ctx, choreID, day, actorID)
	return err
}

// Clear empties one cell. Clearing an empty cell is a no-op.
func (b *Board) Clear(ctx context.Context, choreID int64, day model.Day) error {
	if err := b.store.DeleteCell(ctx, choreID, day); err != nil {
		return err
	}
	metrics.RecordBoardClear()
	return nil
}

// ClearAll empties every cell on the board and touches nothing else.
func (b *Board) ClearAll(ctx context.Context) error {
	if err := b.store.DeleteAllAssignments(ctx); err != nil {
		return err
	}
	metrics.RecordBoardClear()
	return nil
}

// Move transfers an actor between cells as add-to-target then
// remove-from-source, so a rejected add leaves the source untouched.
// Returns false when the target add was rejected.
func (b *Board) Move(ctx context.Context, from, to model.CellKey, actorID int64) (bool, error) {
	added, err := b.Add(ctx, to.ChoreID, to.Day, actorID)
	if err != nil || !added {
		return false, err
	}
	if err := b.Remove(ctx, from.ChoreID, from.Day, actorID); err != nil {
		return false, err
	}
	metrics.RecordBoardMove()
	return true, nil
}
