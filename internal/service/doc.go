// Package service implements cached reads and cache-invalidating writes for
// customers, subscriptions and users on top of repository interfaces.
//
// Every service follows the same protocol: reads use [cache.GetOrSet] with a
// key from the entity's [policy.Policy]; writes go to the repository first and
// then hand the policy's invalidation set to [cache.Cache.Invalidate].
// Invalidation failures after a committed write are logged and left to TTL
// expiry.
package service
