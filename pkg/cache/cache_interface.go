package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read-through cache layer. The Redis
// implementation lives in internal/infrastructure/cache; an in-memory fake
// can stand in for tests.
type Cache interface {
	// Get loads the value stored under key and unmarshals it into dest.
	// found=false means a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern, used for
	// write-path invalidation of whole key families.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
