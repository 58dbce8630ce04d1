// Package redis opens and manages the process-wide Redis connection used by
// the cache store.
//
// It wraps [github.com/redis/go-redis/v9] with connection pooling defaults,
// startup retries, a health check closure and a shutdown hook.
//
// The client is opened once at startup and closed once at shutdown. Nothing in
// this module keeps it in a global variable: pass it explicitly to
// [github.com/dmitrymomot/entitycache/pkg/store.NewRedis].
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//		redis.WithPoolSize(20),
//		redis.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	defer redis.Shutdown(client)(ctx)
//
// # Error Handling
//
//   - [ErrEmptyConnectionURL] - empty connection URL
//   - [ErrFailedToParseURL] - invalid URL or scheme
//   - [ErrConnectionFailed] - every attempt failed; joined with the last ping error
//   - [ErrHealthcheckFailed] - ping failed
package redis
