package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/entitycache/pkg/cache"
	"github.com/dmitrymomot/entitycache/pkg/logger"
	"github.com/dmitrymomot/entitycache/pkg/policy"
)

// Cache namespaces and selectors.
const (
	CustomerNamespace     = "customer"
	SubscriptionNamespace = "subscription"
	UserNamespace         = "user"

	emailField     = "email"
	statsAggregate = "stats"
)

// DefaultTTL is the lifetime of every entity entry unless configured otherwise.
const DefaultTTL = 30 * time.Minute

// CustomerPolicy returns the cache policy for customers.
func CustomerPolicy(ttl time.Duration) *policy.Policy[int64] {
	return policy.MustNew[int64](policy.Config{
		Namespace:   CustomerNamespace,
		UniqueField: emailField,
		TTL:         orDefault(ttl),
	})
}

// SubscriptionPolicy returns the cache policy for subscriptions, including
// the "subscription:stats" aggregate.
func SubscriptionPolicy(ttl time.Duration) *policy.Policy[int64] {
	return policy.MustNew[int64](policy.Config{
		Namespace:  SubscriptionNamespace,
		TTL:        orDefault(ttl),
		Aggregates: []string{statsAggregate},
	})
}

// UserPolicy returns the cache policy for users.
func UserPolicy(ttl time.Duration) *policy.Policy[int64] {
	return policy.MustNew[int64](policy.Config{
		Namespace:   UserNamespace,
		UniqueField: emailField,
		TTL:         orDefault(ttl),
	})
}

func orDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return DefaultTTL
	}
	return ttl
}

// Option configures a service.
type Option func(*options)

type options struct {
	logger *slog.Logger
	ttl    time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTTL overrides the entity TTL. Default: [DefaultTTL].
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// invalidate runs set after a committed write. The write already succeeded,
// so failures are logged and left to TTL expiry instead of failing the call.
func invalidate(ctx context.Context, c *cache.Cache, log *slog.Logger, set cache.InvalidationSet) {
	n, err := c.Invalidate(ctx, set)
	if err != nil {
		log.ErrorContext(ctx, "cache invalidation failed, stale entries live until ttl",
			slog.Any("keys", set.Keys),
			slog.Any("patterns", set.Patterns),
			slog.String("error", err.Error()),
		)
		return
	}
	log.DebugContext(ctx, "cache invalidated",
		slog.Any("keys", set.Keys),
		slog.Any("patterns", set.Patterns),
		slog.Int64("deleted", n),
	)
}

// listPage loads one page and the total count concurrently.
func listPage[T any](
	ctx context.Context,
	p Pagination,
	list func(ctx context.Context, offset, limit int) ([]T, error),
	count func(ctx context.Context) (int64, error),
) (Page[T], error) {
	var (
		items []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx, p.offset(), p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	return newPage(items, total, p), nil
}
