// Package store defines the key-value client the cache facade talks to and
// ships two implementations of it.
//
// [Redis] adapts a go-redis client; [Memory] is an in-process store with the
// same semantics for tests and local development.
//
// # Key prefix
//
// Both implementations carry a key prefix that is applied transparently to
// Get, Set and Del but not to Keys:
//
//	s := store.NewRedis(client, "app:")
//	s.Set(ctx, "customer:id:1", data, time.Minute) // physical key "app:customer:id:1"
//	s.Keys(ctx, "customer:*")                      // matches nothing
//	s.Keys(ctx, "app:customer:*")                  // ["app:customer:id:1"]
//	s.Del(ctx, "app:customer:id:1")                // deletes "app:app:customer:id:1", i.e. nothing
//
// Code that scans and then deletes must prepend the prefix to the pattern and
// strip it from the results. The cache facade does exactly that.
//
// # Errors
//
//   - [ErrNotFound] - Get on a missing or expired key
//   - [ErrUnavailable] - the store could not be reached; joined with the cause
//   - [ErrClosed] - the memory store was closed; always joined with ErrUnavailable
package store
