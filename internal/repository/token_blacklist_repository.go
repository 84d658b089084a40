package repository

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklistRepo is the durable deny-list of tokens revoked before their
// natural expiry. Postgres holds the source of truth; an optional Redis
// client serves as a look-aside cache so the per-request lookup usually
// avoids a database round trip. Redis entries carry a TTL matching the
// token's own expiry, after which the cache entry, like the row itself,
// guards nothing.
type TokenBlacklistRepo struct {
	DB    *sql.DB
	Redis *redis.Client // nil disables the cache
}

func NewTokenBlacklistRepo(db *sql.DB, rdb *redis.Client) *TokenBlacklistRepo {
	return &TokenBlacklistRepo{DB: db, Redis: rdb}
}

// cacheKey derives a bounded Redis key from an arbitrary-length token string.
func cacheKey(token string) string {
	sum := sha1.Sum([]byte(token))
	return fmt.Sprintf("blacklist:%x", sum)
}

// Revoke inserts a token into the blacklist. The insert is idempotent:
// revoking an already-revoked token is a no-op, not an error. The Redis
// write is best effort; a cache failure leaves the durable row in place.
func (r *TokenBlacklistRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_blacklist (token, expires_at) VALUES ($1,$2) ON CONFLICT (token) DO NOTHING",
		token, expiresAt)
	if err != nil {
		return err
	}
	r.cacheSet(ctx, token, expiresAt)
	return nil
}

// IsBlacklisted reports whether a token has been revoked. A Redis hit
// answers immediately; a miss (or a Redis error) falls through to the
// Postgres point lookup, and a positive database answer backfills the cache.
func (r *TokenBlacklistRepo) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if r.Redis != nil {
		n, err := r.Redis.Exists(ctx, cacheKey(token)).Result()
		if err == nil && n > 0 {
			return true, nil
		}
		// On error fall through to the database; the cache never
		// decides a token is clean on its own.
	}

	var expiresAt time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT expires_at FROM token_blacklist WHERE token=$1 LIMIT 1",
		token).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.cacheSet(ctx, token, expiresAt)
	return true, nil
}

// cacheSet records a revoked token in Redis with a TTL ending at the token's
// expiry. Already-expired tokens are not cached.
func (r *TokenBlacklistRepo) cacheSet(ctx context.Context, token string, expiresAt time.Time) {
	if r.Redis == nil {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if err := r.Redis.Set(ctx, cacheKey(token), "1", ttl).Err(); err != nil {
		log.Printf("blacklist: redis set failed: %v", err)
	}
}

// SweepExpired deletes all blacklist rows whose expiry is in the past and
// returns how many were removed. The sweep reclaims space only: an expired
// row that survives until the next tick rejects nothing that the token's own
// expiry would not already reject.
func (r *TokenBlacklistRepo) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM token_blacklist WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartSweeper runs SweepExpired on a fixed interval until the context is
// cancelled. Failures are logged and retried on the next tick; the sweep
// never runs inline with request handling.
func (r *TokenBlacklistRepo) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.SweepExpired(ctx)
			if err != nil {
				log.Printf("blacklist: sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("blacklist: swept %d expired tokens", n)
			}
		}
	}
}
