package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Allows swapping implementations (Redis, in-memory for tests).
type Cache interface {
	// Get fetches data from cache and unmarshals into dest.
	// Returns: (found, error)
	// - found = true: cache hit, data unmarshalled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores data in cache with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from cache
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection
	Ping(ctx context.Context) error
}
