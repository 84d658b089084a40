package model

import "time"

// Todo models a row in the `todos` table. Every todo belongs to exactly one
// user and is only ever read or written through owner-scoped queries.
// UpdatedAt stays nil until the row is modified for the first time.
type Todo struct {
	ID        uint64     // todos.id
	UserID    uint64     // todos.user_id (references users.id)
	Title     string     // todos.title (non-empty, trimmed)
	Completed bool       // todos.completed
	CreatedAt time.Time  // todos.created_at
	UpdatedAt *time.Time // todos.updated_at (nullable)
}
