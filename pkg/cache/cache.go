package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/entitycache/pkg/store"
)

// NoExpiration stores an entry without TTL. Use it only for data that is
// invalidated exclusively by explicit triggers.
const NoExpiration time.Duration = -1

// Cache is the cache-aside facade over a [store.Client].
//
// A Cache is safe for concurrent use. It holds no per-request state; all
// goroutines share the store client and its connection pool.
//
// TTL semantics for every write:
//   - Positive duration: entry expires after this duration
//   - Zero: the configured default TTL (see [WithDefaultTTL])
//   - Negative: entry never expires
type Cache struct {
	client store.Client
	opts   *options
	group  *singleflight.Group
}

// New creates a cache facade on top of client.
//
// Example:
//
//	s := store.NewRedis(client, cfg.Redis.KeyPrefix)
//	c := cache.New(s,
//	    cache.WithLogger(log),
//	    cache.WithDefaultTTL(30*time.Minute),
//	)
func New(client store.Client, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c := &Cache{
		client: client,
		opts:   o,
	}
	if o.singleflight {
		c.group = &singleflight.Group{}
	}

	return c
}

// GetRaw returns the stored bytes for key. ok is false when the key is absent.
func (c *Cache) GetRaw(ctx context.Context, key string) (data []byte, ok bool, err error) {
	data, err = c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, nil
		}
		c.opts.metrics.storeError(opGet)
		return nil, false, err
	}
	return data, true, nil
}

// SetRaw stores already serialized bytes under key.
func (c *Cache) SetRaw(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, c.resolveTTL(ttl)); err != nil {
		c.opts.metrics.storeError(opSet)
		return err
	}
	return nil
}

// Delete removes exact keys and returns how many existed.
// Missing keys are not an error. Without keys no store call is made.
func (c *Cache) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := c.client.Del(ctx, keys...)
	if err != nil {
		c.opts.metrics.storeError(opDelete)
		return 0, err
	}

	c.opts.metrics.deleted(n)
	c.opts.logger.DebugContext(ctx, "cache keys deleted",
		slog.Int("requested", len(keys)),
		slog.Int64("deleted", n),
	)

	return n, nil
}

// DeleteByPattern deletes every key matching a glob pattern written in
// unprefixed key space (e.g. "customer:list:*") and returns how many were
// removed.
//
// The store scans physical keys, so the store prefix is escaped and prepended
// to the pattern before scanning, then stripped from each result before DEL,
// which applies it again.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	prefix := c.client.Prefix()

	physical, err := c.client.Keys(ctx, store.EscapeGlob(prefix)+pattern)
	if err != nil {
		c.opts.metrics.storeError(opScan)
		return 0, err
	}

	keys := make([]string, 0, len(physical))
	for _, k := range physical {
		if logical, ok := strings.CutPrefix(k, prefix); ok {
			keys = append(keys, logical)
		}
	}

	if len(keys) == 0 {
		return 0, nil
	}

	n, err := c.client.Del(ctx, keys...)
	if err != nil {
		c.opts.metrics.storeError(opDelete)
		return 0, err
	}

	c.opts.metrics.deleted(n)
	c.opts.logger.DebugContext(ctx, "cache pattern deleted",
		slog.String("pattern", pattern),
		slog.Int64("deleted", n),
	)

	return n, nil
}

// Invalidate executes an invalidation set: exact keys first in a single DEL,
// then each pattern. It is best effort, not transactional: a failing step does
// not stop the remaining ones, and all errors are joined.
func (c *Cache) Invalidate(ctx context.Context, set InvalidationSet) (int64, error) {
	var (
		total int64
		errs  []error
	)

	n, err := c.Delete(ctx, set.Keys...)
	total += n
	if err != nil {
		errs = append(errs, err)
	}

	for _, pattern := range set.Patterns {
		n, err := c.DeleteByPattern(ctx, pattern)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		c.opts.logger.WarnContext(ctx, "cache invalidation incomplete",
			slog.Any("keys", set.Keys),
			slog.Any("patterns", set.Patterns),
			slog.String("error", err.Error()),
		)
		return total, err
	}

	return total, nil
}

// Ping checks that the store is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

func (c *Cache) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = c.opts.defaultTTL
	}
	// The store treats non-positive TTL as no expiry.
	return max(ttl, 0)
}
