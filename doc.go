// Package entitycache is a cache-aside layer for CRUD backends, built on a
// shared key-value store with a key prefix.
//
// The module is organised as a set of small packages:
//
//   - [github.com/dmitrymomot/entitycache/pkg/store]: the store contract with
//     Redis and in-memory backends. The prefix is applied to Get, Set and Del
//     but not to Keys.
//   - [github.com/dmitrymomot/entitycache/pkg/cache]: the typed facade. Get,
//     Set, GetOrSet, Delete, DeleteByPattern and Invalidate. Every failure except
//     an unreachable store degrades to a miss.
//   - [github.com/dmitrymomot/entitycache/pkg/policy]: per-entity key layout
//     (ns:id:…, ns:<unique>:…, ns:list:<canonical query>) and the invalidation
//     sets a create, update or delete must purge.
//   - [github.com/dmitrymomot/entitycache/pkg/redis]: connection setup, health
//     check and shutdown for the process-wide Redis client.
//   - [github.com/dmitrymomot/entitycache/pkg/logger] and
//     [github.com/dmitrymomot/entitycache/pkg/health]: slog setup with optional
//     Sentry, and parallel health checks.
//
// # Quick Start
//
//	client := redis.MustOpen(ctx, "redis://localhost:6379/0")
//	defer func() { _ = redis.Shutdown(client)(context.Background()) }()
//
//	c := cache.New(store.NewRedis(client, "app:"),
//	    cache.WithLogger(log),
//	    cache.WithDefaultTTL(30*time.Minute),
//	)
//
//	customers := policy.MustNew[int64](policy.Config{
//	    Namespace:   "customer",
//	    UniqueField: "email",
//	    TTL:         30 * time.Minute,
//	})
//
//	cust, err := cache.GetOrSet(ctx, c, customers.KeyByID(id), customers.TTL(),
//	    func(ctx context.Context) (Customer, error) { return repo.FindByID(ctx, id) })
//
// After a write, purge what it made stale:
//
//	_, err = c.Invalidate(ctx, customers.OnUpdate(id, oldEmail, newEmail))
//
// The cachectl command (cmd/cachectl) exposes the same operations from the
// shell and serves /livez, /readyz and /metrics.
package entitycache
