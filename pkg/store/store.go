package store

import (
	"context"
	"time"
)

// Client is the minimal key-value store contract the cache facade is built on.
//
// Implementations apply their configured key prefix transparently to Get, Set
// and Del. Keys does NOT apply it: the pattern is matched against physical
// keys as stored and the results are returned with the prefix attached. Callers
// that delete scan results must strip the prefix first, otherwise Del applies
// it a second time.
type Client interface {
	// Get returns the stored bytes, or ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes keys and returns how many existed. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Keys returns the physical (prefixed) keys matching a glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Prefix returns the prefix applied to Get, Set and Del.
	Prefix() string

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
