package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/task-tracker-api/internal/model"
)

const taskColumns = "id, owner_id, title, description, completed, created_at, updated_at"

// TaskRepo encapsulates all queries against the `tasks` table.  It does not
// decide access; callers check ownership first.  Writes still filter on
// owner_id so a mistake upstream cannot touch another user's row.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create inserts the task and fills in its ID.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = "INSERT INTO tasks (owner_id, title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, t.OwnerID, t.Title, nullString(t.Description), t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a task regardless of owner.  It returns ErrNotFound when
// no row matches.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (*model.Task, error) {
	const q = "SELECT " + taskColumns + " FROM tasks WHERE id = ?"
	t, err := scanTask(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

// ListByOwner returns one page of the owner's tasks ordered by id.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*model.Task, error) {
	const q = "SELECT " + taskColumns + " FROM tasks WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// Update writes title, description, completed and updated_at.  It returns
// ErrNotFound when no row with that id and owner exists.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	const q = `UPDATE tasks
	           SET title = ?, description = ?, completed = ?, updated_at = ?
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Title, nullString(t.Description), t.Completed, t.UpdatedAt, t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectRow(res)
}

// Delete removes the task if it belongs to ownerID.
func (r *TaskRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*model.Task, error) {
	var (
		t    model.Task
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.OwnerID, &t.Title, &desc, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return &t, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
