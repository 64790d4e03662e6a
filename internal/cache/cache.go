// Package cache provides a TTL key/value cache used to short-circuit repeated
// lookups such as duplicate submission checks.
package cache

import (
	"context"
	"time"
)

// Cache stores string values with a per-entry time to live.
type Cache interface {
	// Get returns the value and true when key is present and not expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
