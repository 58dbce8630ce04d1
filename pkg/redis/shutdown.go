package redis

import (
	"context"
	"io"
)

// Shutdown returns a function that closes the process-wide Redis client.
// Call it exactly once when the process exits.
//
// Example:
//
//	client := redis.MustOpen(ctx, cfg.Redis.URL)
//	defer func() { _ = redis.Shutdown(client)(context.Background()) }()
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		if client == nil {
			return nil
		}
		return client.Close()
	}
}
