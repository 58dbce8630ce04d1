// Package cache is a cache-aside facade over a key-value [store.Client].
//
// It adds typed JSON serialization, a get-or-populate primitive and safe bulk
// invalidation, and it hides the store's key-prefix handling from callers.
//
// # Typed access
//
// Go methods cannot have type parameters, so typed operations are package
// functions taking the facade:
//
//	c := cache.New(store.NewRedis(client, "app:"), cache.WithLogger(log))
//
//	err := cache.Set(ctx, c, "customer:id:42", customer, 30*time.Minute)
//	v, ok, err := cache.Get[Customer](ctx, c, "customer:id:42")
//
// A missing key, a JSON null, and bytes that cannot be decoded are all
// reported as ok == false. Only store failures are returned as errors.
//
// # Get or set
//
//	customer, err := cache.GetOrSet(ctx, c, key, 30*time.Minute,
//	    func(ctx context.Context) (Customer, error) {
//	        return repo.FindByID(ctx, id)
//	    })
//
// A hit never calls compute. A miss calls it once and stores the result; a
// compute error is returned unchanged and nothing is cached. Concurrent
// misses for one key may each call compute. That thundering herd is accepted
// rather than prevented; [WithSingleflight] collapses it within one process.
//
// # Invalidation
//
// [Cache.Delete] removes exact keys. [Cache.DeleteByPattern] removes every key
// matching a glob written without the store prefix:
//
//	n, err := c.DeleteByPattern(ctx, "customer:list:*")
//
// The store's KEYS/SCAN does not apply the prefix but DEL does, so the facade
// prepends the escaped prefix before scanning and strips it from the results
// before deleting. Getting this wrong either scans nothing or deletes
// double-prefixed keys, leaving stale entries live without any error.
//
// [Cache.Invalidate] runs an [InvalidationSet] as produced by the policy
// package: exact keys first, then patterns, best effort.
//
// # Error Handling
//
//   - [ErrStoreUnavailable] - the store could not be reached (same value as store.ErrUnavailable)
//   - [ErrMarshal] - value serialization failed
//   - [ErrUnmarshal] - logged and counted on Get, never returned
package cache
