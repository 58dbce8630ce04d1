// Package policy defines how an entity type is keyed and invalidated in the cache.
//
// One generic [Policy] replaces hand-written key templates per service:
//
//	customers := policy.MustNew[int64](policy.Config{
//	    Namespace:   "customer",
//	    UniqueField: "email",
//	    TTL:         30 * time.Minute,
//	})
//
//	customers.KeyByID(42)                  // customer:id:42
//	customers.KeyByUnique("a@x.com")       // customer:email:a@x.com
//	customers.KeyForList(query)            // customer:list:{"limit":10,"page":1}
//	customers.OnUpdate(5, "a@x.com", "b@x.com")
//
// List keys embed the query in canonical JSON (see [Canonical]), so field
// order never splits one logical query across two keys and distinct filters
// never share one.
//
// The On* methods return a [cache.InvalidationSet] to hand to
// [cache.Cache.Invalidate] after the write has committed.
package policy
