package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/adam5096/api-server-postgresql/internal/model"
)

// TodoRepo encapsulates all database queries over the todos table. Every
// statement that touches an existing row carries the owner's user id in the
// same WHERE clause as the row id, so ownership is enforced by the database
// predicate itself rather than by a separate check.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

// ListByOwner returns all todos belonging to a user, newest first.
func (r *TodoRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, title, completed, created_at, updated_at FROM todos WHERE user_id=$1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		var updated sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			t.UpdatedAt = &updated.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new todo for the user. The title is expected to be
// already trimmed and non-empty; validation happens at the handler so that
// batch input can skip invalid entries per item.
func (r *TodoRepo) Create(ctx context.Context, userID uint64, title string, completed bool) (model.Todo, error) {
	t := model.Todo{UserID: userID, Title: title, Completed: completed}
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO todos (user_id, title, completed) VALUES ($1,$2,$3) RETURNING id, created_at",
		userID, title, completed).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

// GetByIDAndOwner fetches a todo by id but only if it belongs to the given
// user. Returns ErrNotFound both when the row does not exist and when it is
// owned by someone else.
func (r *TodoRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (model.Todo, error) {
	var t model.Todo
	var updated sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, title, completed, created_at, updated_at FROM todos WHERE id=$1 AND user_id=$2",
		id, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}
	if updated.Valid {
		t.UpdatedAt = &updated.Time
	}
	return t, nil
}

// Update applies a partial patch to an owned todo. Nil fields are left
// untouched. updated_at is set to NOW() only because at least one field is
// changing; callers with an empty effective patch must not call Update at
// all. The single UPDATE ... WHERE id AND user_id statement is the atomic
// existence-plus-ownership check: zero affected rows means ErrNotFound.
func (r *TodoRepo) Update(ctx context.Context, id, userID uint64, title *string, completed *bool) (model.Todo, error) {
	set := []string{}
	args := []any{}
	n := 1
	if title != nil {
		set = append(set, fmt.Sprintf("title=$%d", n))
		args = append(args, *title)
		n++
	}
	if completed != nil {
		set = append(set, fmt.Sprintf("completed=$%d", n))
		args = append(args, *completed)
		n++
	}
	if len(set) == 0 {
		return r.GetByIDAndOwner(ctx, id, userID)
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id, userID)

	q := fmt.Sprintf(
		"UPDATE todos SET %s WHERE id=$%d AND user_id=$%d RETURNING id, user_id, title, completed, created_at, updated_at",
		strings.Join(set, ", "), n, n+1)

	var t model.Todo
	var updated sql.NullTime
	err := r.DB.QueryRowContext(ctx, q, args...).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}
	if updated.Valid {
		t.UpdatedAt = &updated.Time
	}
	return t, nil
}

// Delete removes an owned todo. Returns ErrNotFound under the same
// id-plus-owner predicate as Update.
func (r *TodoRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
