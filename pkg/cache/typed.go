package cache

import (
	"context"
	"log/slog"
	"time"
)

// Get returns the value cached under key.
//
// ok is false when the key is absent, holds JSON null, or holds bytes that do
// not decode into T. Decode failures are logged and counted but never
// returned, and the entry is left in place for the next Set to overwrite.
// Store failures are returned.
func Get[T any](ctx context.Context, c *Cache, key string) (v T, ok bool, err error) {
	data, found, err := c.GetRaw(ctx, key)
	if err != nil {
		return v, false, err
	}
	if !found || isNull(data) {
		c.opts.metrics.miss()
		c.opts.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return v, false, nil
	}

	if err := c.opts.marshaler.Unmarshal(data, &v); err != nil {
		var zero T
		c.opts.metrics.decodeFailure()
		c.opts.metrics.miss()
		c.opts.logger.WarnContext(ctx, "cache entry could not be decoded, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return zero, false, nil
	}

	c.opts.metrics.hit()
	c.opts.logger.DebugContext(ctx, "cache hit", slog.String("key", key))

	return v, true, nil
}

// Set serializes value and stores it under key.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := c.opts.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	return c.SetRaw(ctx, key, data, ttl)
}

// GetOrSet returns the value cached under key, or computes, stores and
// returns it on a miss.
//
// On a hit compute is not called. On a miss compute is called exactly once by
// this call. Its error is returned unchanged and nothing is cached.
//
// Concurrent misses for the same key are not coordinated: each caller may run
// compute, and the last write wins. Use [WithSingleflight] to collapse them
// inside one process.
//
// The write after compute runs on a context detached from ctx cancellation, so
// an abandoned request still warms the cache. If that write fails the error is
// logged and the computed value is returned anyway.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	v, ok, err := Get[T](ctx, c, key)
	switch {
	case err != nil && !c.opts.failOpen:
		return v, err
	case err != nil:
		c.opts.logger.WarnContext(ctx, "cache lookup failed, computing value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	case ok:
		return v, nil
	}

	if c.group == nil {
		return populate(ctx, c, key, ttl, compute)
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		return populate(ctx, c, key, ttl, compute)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	// A nil interface result does not assert to an interface T.
	if res == nil {
		var zero T
		return zero, nil
	}
	if typed, ok := res.(T); ok {
		return typed, nil
	}
	// The same key used with two value types would land here.
	return populate(ctx, c, key, ttl, compute)
}

func populate[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := compute(ctx)
	c.opts.metrics.observeCompute(time.Since(start), err)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := Set(context.WithoutCancel(ctx), c, key, v, ttl); err != nil {
		c.opts.logger.WarnContext(ctx, "failed to store computed value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return v, nil
}
