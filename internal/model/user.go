package model

import "time"

// User represents an application user record as stored in the `users` table.
// The password is held only as a bcrypt hash; plaintext is never persisted.
// Accounts are immutable once created; there is no profile-update path in
// this service.
type User struct {
	ID           uint64    // users.id
	Nickname     string    // users.nickname (unique)
	Email        string    // users.email (unique)
	PasswordHash string    // users.password
	CreatedAt    time.Time // users.created_at
}
