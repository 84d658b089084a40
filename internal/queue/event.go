// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when a new account is created. It carries
// enough information for downstream consumers (welcome mail, analytics) to
// act without querying the primary database. The password never appears
// here.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}
