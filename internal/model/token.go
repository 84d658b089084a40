package model

import "time"

// BlacklistedToken models an entry in the `token_blacklist` table. A row is
// written when a user logs out before their access token expires; the token
// string itself is the unique key. ExpiresAt is copied from the token's own
// expiry claim, so an entry past ExpiresAt guards nothing (the token is
// already dead on its own) and is eligible for the periodic sweep.
type BlacklistedToken struct {
	ID        uint64    // token_blacklist.id
	Token     string    // token_blacklist.token (unique)
	CreatedAt time.Time // token_blacklist.created_at
	ExpiresAt time.Time // token_blacklist.expires_at
}
