// Package repository defines the row store interface and errors.
//
// The store covers four logical relations: actors, chores, assignments and
// settings. It stays deliberately dumb: capacity limits, duplicate checks
// and hierarchy invariants are enforced by the layers above, the store only
// inserts, patches, deletes and queries rows in deterministic order.
package repository

import (
	"context"

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// AssignmentRow is one cell-membership row. ID is the insertion-ordered
// row id; cell reads are ordered by it.
type AssignmentRow struct {
	ID      int64
	ChoreID int64
	Day     model.Day
	ActorID int64
}

// Store provides read/write access to the four relations.
type Store interface {
	// InsertActor stores a new actor and returns its assigned id.
	InsertActor(ctx context.Context, a model.Actor) (int64, error)

	// GetActor returns the actor for id, or ErrNotFound.
	GetActor(ctx context.Context, id int64) (model.Actor, error)

	// UpdateActor applies a partial patch to the actor row. Omitted fields
	// keep their values; group payload keys merge instead of replacing.
	// Returns ErrNotFound for unknown ids.
	UpdateActor(ctx context.Context, id int64, patch model.ActorPatch) error

	// DeleteActor removes the actor row only. Unknown ids are a no-op.
	DeleteActor(ctx context.Context, id int64) error

	// Actors lists actors ascending by id. An empty kind lists all kinds.
	Actors(ctx context.Context, kind model.ActorKind) ([]model.Actor, error)

	// InsertChore stores a new chore and returns its assigned id.
	InsertChore(ctx context.Context, c model.Chore) (int64, error)

	// GetChore returns the chore for id, or ErrNotFound.
	GetChore(ctx context.Context, id int64) (model.Chore, error)

	// UpdateChore applies a partial patch to the chore row.
	UpdateChore(ctx context.Context, id int64, patch model.ChorePatch) error

	// DeleteChore removes the chore row only. Unknown ids are a no-op.
	DeleteChore(ctx context.Context, id int64) error

	// Chores lists chores ordered by (sort order, id) ascending.
	Chores(ctx context.Context) ([]model.Chore, error)

	// MaxChoreOrder returns the highest sort order in use, 0 when empty.
	MaxChoreOrder(ctx context.Context) (int, error)

	// InsertAssignment adds one cell-membership row and returns its id.
	InsertAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (int64, error)

	// DeleteAssignment removes one membership row; absent rows are a no-op.
	DeleteAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error

	// DeleteCell removes every membership row of one cell.
	DeleteCell(ctx context.Context, choreID int64, day model.Day) error

	// DeleteAssignmentsByActor removes every membership row for an actor.
	DeleteAssignmentsByActor(ctx context.Context, actorID int64) error

	// DeleteAssignmentsByChore removes every membership row for a chore.
	DeleteAssignmentsByChore(ctx context.Context, choreID int64) error

	// DeleteAllAssignments empties the assignments relation and nothing else.
	DeleteAllAssignments(ctx context.Context) error

	// Assignments lists all membership rows in insertion order.
	Assignments(ctx context.Context) ([]AssignmentRow, error)

	// Cell lists the actor ids of one cell in insertion order.
	Cell(ctx context.Context, choreID int64, day model.Day) ([]int64, error)

	// GetSetting returns the raw value for key, or ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting upserts one key/value pair.
	SetSetting(ctx context.Context, key, value string) error

	// Settings returns all settings as a key/value map.
	Settings(ctx context.Context) (map[string]string, error)

	// Close releases store resources.
	Close() error
}
