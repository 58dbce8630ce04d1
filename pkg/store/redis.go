package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanCount = 100

// Redis is a [Client] backed by go-redis.
//
// go-redis has no client-level key prefix, so Redis applies it itself to GET,
// SET and DEL. Keys deliberately leaves patterns and results untouched, which
// matches how prefixing Redis clients treat KEYS and SCAN.
type Redis struct {
	client    redis.UniversalClient
	prefix    string
	scanCount int64
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithScanCount sets the COUNT hint passed to SCAN when resolving patterns.
// Default: 100.
func WithScanCount(n int64) RedisOption {
	return func(r *Redis) {
		if n > 0 {
			r.scanCount = n
		}
	}
}

// NewRedis wraps a client opened with [github.com/dmitrymomot/entitycache/pkg/redis.Open].
// prefix is prepended to every key passed to Get, Set and Del.
func NewRedis(client redis.UniversalClient, prefix string, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    client,
		prefix:    prefix,
		scanCount: defaultScanCount,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the value stored under the prefixed key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrUnavailable, err)
	}
	return data, nil
}

// Set stores value under the prefixed key. A non-positive ttl means no expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, max(ttl, 0)).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Del removes the prefixed keys and returns how many existed.
// Calling it without keys is passed through to the server, which rejects it.
func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	physical := make([]string, len(keys))
	for i, k := range keys {
		physical[i] = r.prefix + k
	}

	n, err := r.client.Del(ctx, physical...).Result()
	if err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	return n, nil
}

// Keys resolves pattern with SCAN and returns matching physical keys.
// The prefix is neither added to the pattern nor removed from the results.
func (r *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	keys := make([]string, 0)

	iter := r.client.Scan(ctx, 0, pattern, r.scanCount).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		// SCAN may return an element more than once.
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	return keys, nil
}

// Prefix returns the configured key prefix.
func (r *Redis) Prefix() string {
	return r.prefix
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying client. Call it once, at process shutdown.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Client = (*Redis)(nil)
