package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/smurf-frank/chorechart/internal/domain/model"
)

// Compile-time interface checks for both backends.
var (
	_ Store = (*MemStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore implements Store on an embedded SQLite database. The schema
// mirrors the four logical relations one to one; the group payload travels
// as a metadata JSON column so future actor kinds can carry their own
// payloads without migrations.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithBusyTimeout sets how long a statement waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The engine is single logical writer; one connection keeps statement
	// ordering identical to call ordering.
	db.SetMaxOpenConns(1)
	s.db = db

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds())); err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			initials TEXT NOT NULL,
			color TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS chores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chore_id INTEGER NOT NULL,
			day_index INTEGER NOT NULL,
			actor_id INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// actorMeta is the metadata column shape for group payloads.
type actorMeta struct {
	MemberIDs    []int64 `json:"memberIds,omitempty"`
	ShowAsMarker bool    `json:"showAsMarker,omitempty"`
}

func encodeMeta(a model.Actor) (string, error) {
	if a.Group == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(actorMeta{
		MemberIDs:    a.Group.MemberIDs,
		ShowAsMarker: a.Group.ShowAsMarker,
	})
	if err != nil {
		return "", fmt.Errorf("encode actor metadata: %w", err)
	}
	return string(raw), nil
}

func decodeActor(id int64, kind, name, initials, color, meta string) (model.Actor, error) {
	a := model.Actor{
		ID:       id,
		Kind:     model.ActorKind(kind),
		Name:     name,
		Initials: initials,
		Color:    color,
	}
	if !a.IsGroup() {
		return a, nil
	}
	var m actorMeta
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &m); err != nil {
			return model.Actor{}, fmt.Errorf("decode actor metadata: %w", err)
		}
	}
	a.Group = &model.GroupData{MemberIDs: m.MemberIDs, ShowAsMarker: m.ShowAsMarker}
	return a, nil
}

func (s *SQLiteStore) InsertActor(ctx context.Context, a model.Actor) (int64, error) {
	defer trackStoreOp("insert_actor", time.Now())

	meta, err := encodeMeta(a)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO actors (kind, name, initials, color, metadata) VALUES (?, ?, ?, ?, ?)",
		string(a.Kind), a.Name, a.Initials, a.Color, meta)
	if err != nil {
		return 0, fmt.Errorf("insert actor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert actor id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) GetActor(ctx context.Context, id int64) (model.Actor, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, kind, name, initials, color, metadata FROM actors WHERE id = ?", id)

	var rid int64
	var kind, name, initials, color, meta string
	if err := row.Scan(&rid, &kind, &name, &initials, &color, &meta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Actor{}, ErrNotFound
		}
		return model.Actor{}, fmt.Errorf("get actor: %w", err)
	}
	return decodeActor(rid, kind, name, initials, color, meta)
}

func (s *SQLiteStore) UpdateActor(ctx context.Context, id int64, patch model.ActorPatch) error {
	defer trackStoreOp("update_actor", time.Now())

	// Read-merge-write keeps patch semantics identical to the in-memory
	// backend, including group payload merging.
	current, err := s.GetActor(ctx, id)
	if err != nil {
		return err
	}
	next := patch.Apply(current)
	meta, err := encodeMeta(next)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE actors SET kind = ?, name = ?, initials = ?, color = ?, metadata = ? WHERE id = ?",
		string(next.Kind), next.Name, next.Initials, next.Color, meta, id)
	if err != nil {
		return fmt.Errorf("update actor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteActor(ctx context.Context, id int64) error {
	defer trackStoreOp("delete_actor", time.Now())

	if _, err := s.db.ExecContext(ctx, "DELETE FROM actors WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete actor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Actors(ctx context.Context, kind model.ActorKind) ([]model.Actor, error) {
	query := "SELECT id, kind, name, initials, color, metadata FROM actors"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Actor
	for rows.Next() {
		var id int64
		var akind, name, initials, color, meta string
		if err := rows.Scan(&id, &akind, &name, &initials, &color, &meta); err != nil {
			return nil, fmt.Errorf("scan actor: %w", err)
		}
		a, err := decodeActor(id, akind, name, initials, color, meta)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) InsertChore(ctx context.Context, c model.Chore) (int64, error) {
	defer trackStoreOp("insert_chore", time.Now())

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chores (name, sort_order) VALUES (?, ?)", c.Name, c.SortOrder)
	if err != nil {
		return 0, fmt.Errorf("insert chore: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert chore id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) GetChore(ctx context.Context, id int64) (model.Chore, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, sort_order FROM chores WHERE id = ?", id)

	var c model.Chore
	if err := row.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Chore{}, ErrNotFound
		}
		return model.Chore{}, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) UpdateChore(ctx context.Context, id int64, patch model.ChorePatch) error {
	defer trackStoreOp("update_chore", time.Now())

	current, err := s.GetChore(ctx, id)
	if err != nil {
		return err
	}
	next := patch.Apply(current)
	_, err = s.db.ExecContext(ctx,
		"UPDATE chores SET name = ?, sort_order = ? WHERE id = ?", next.Name, next.SortOrder, id)
	if err != nil {
		return fmt.Errorf("update chore: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteChore(ctx context.Context, id int64) error {
	defer trackStoreOp("delete_chore", time.Now())

	if _, err := s.db.ExecContext(ctx, "DELETE FROM chores WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Chores(ctx context.Context) ([]model.Chore, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, sort_order FROM chores ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Chore
	for rows.Next() {
		var c model.Chore
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) MaxChoreOrder(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(sort_order), 0) FROM chores")
	var maxOrder int
	if err := row.Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("max chore order: %w", err)
	}
	return maxOrder, nil
}

func (s *SQLiteStore) InsertAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) (int64, error) {
	defer trackStoreOp("insert_assignment", time.Now())

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO assignments (chore_id, day_index, actor_id) VALUES (?, ?, ?)",
		choreID, int(day), actorID)
	if err != nil {
		return 0, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert assignment id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) DeleteAssignment(ctx context.Context, choreID int64, day model.Day, actorID int64) error {
	defer trackStoreOp("delete_assignment", time.Now())

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM assignments WHERE chore_id = ? AND day_index = ? AND actor_id = ?",
		choreID, int(day), actorID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteCell(ctx context.Context, choreID int64, day model.Day) error {
	defer trackStoreOp("delete_cell", time.Now())

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM assignments WHERE chore_id = ? AND day_index = ?", choreID, int(day))
	if err != nil {
		return fmt.Errorf("delete cell: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAssignmentsByActor(ctx context.Context, actorID int64) error {
	defer trackStoreOp("delete_assignments_by_actor", time.Now())

	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE actor_id = ?", actorID)
	if err != nil {
		return fmt.Errorf("delete assignments by actor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAssignmentsByChore(ctx context.Context, choreID int64) error {
	defer trackStoreOp("delete_assignments_by_chore", time.Now())

	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE chore_id = ?", choreID)
	if err != nil {
		return fmt.Errorf("delete assignments by chore: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAllAssignments(ctx context.Context) error {
	defer trackStoreOp("delete_all_assignments", time.Now())

	if _, err := s.db.ExecContext(ctx, "DELETE FROM assignments"); err != nil {
		return fmt.Errorf("delete all assignments: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Assignments(ctx context.Context) ([]AssignmentRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, chore_id, day_index, actor_id FROM assignments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []AssignmentRow
	for rows.Next() {
		var (
			r   AssignmentRow
			day int
		)
		if err := rows.Scan(&r.ID, &r.ChoreID, &day, &r.ActorID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		r.Day = model.Day(day)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Cell(ctx context.Context, choreID int64, day model.Day) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT actor_id FROM assignments WHERE chore_id = ? AND day_index = ? ORDER BY id",
		choreID, int(day))
	if err != nil {
		return nil, fmt.Errorf("read cell: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0, 2)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cell: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	defer trackStoreOp("set_setting", time.Now())

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}
