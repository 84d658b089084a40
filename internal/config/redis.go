package config

// This file defines a Redis client constructor for the application. Redis is
// used as a look-aside cache in front of the token blacklist table so that
// the per-request revocation lookup usually avoids a database round trip.
// If connection fails during startup, the function returns nil and callers
// degrade gracefully by reading the blacklist from Postgres only.

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables are:
//
//	REDIS_ADDR: host:port of the Redis server (default "localhost:6379")
//	REDIS_PASSWORD: optional password
//
// The returned client may be nil if a connection cannot be established.
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	// Ping the server with a short timeout. Return nil on failure so the
	// blacklist falls back to Postgres-only lookups.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
