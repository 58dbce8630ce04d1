package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/entitycache/pkg/cache"
	"github.com/dmitrymomot/entitycache/pkg/policy"
)

// SubscriptionService serves subscriptions and their statistics through the cache.
//
// Every write purges the subscription's id key, all subscription lists and
// the statistics aggregate.
type SubscriptionService struct {
	repo      SubscriptionRepository
	customers CustomerRepository
	cache     *cache.Cache
	policy    *policy.Policy[int64]
	logger    *slog.Logger
}

// NewSubscriptionService creates a subscription service. customers is used to
// check that a new subscription's owner exists.
func NewSubscriptionService(repo SubscriptionRepository, customers CustomerRepository, c *cache.Cache, opts ...Option) *SubscriptionService {
	o := newOptions(opts)
	return &SubscriptionService{
		repo:      repo,
		customers: customers,
		cache:     c,
		policy:    SubscriptionPolicy(o.ttl),
		logger:    o.logger.With(slog.String("service", SubscriptionNamespace)),
	}
}

// Policy returns the cache policy in use.
func (s *SubscriptionService) Policy() *policy.Policy[int64] { return s.policy }

// Create stores a new subscription for an existing customer. An unknown
// customer returns ErrInvalidInput. Defaults: plan FREE, auto-renew on.
func (s *SubscriptionService) Create(ctx context.Context, in SubscriptionInput) (Subscription, error) {
	if in.Plan == "" {
		in.Plan = PlanFree
	}
	if !in.Plan.Valid() {
		return Subscription{}, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, in.Plan)
	}
	if in.Price < 0 {
		return Subscription{}, errors.Join(ErrInvalidInput, errors.New("price must not be negative"))
	}
	if in.AutoRenew == nil {
		autoRenew := true
		in.AutoRenew = &autoRenew
	}

	if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Subscription{}, fmt.Errorf("%w: customer with id %d not found", ErrInvalidInput, in.CustomerID)
		}
		return Subscription{}, err
	}

	sub, err := s.repo.Create(ctx, in)
	if err != nil {
		return Subscription{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnCreate())

	return sub, nil
}

// List returns one page of subscriptions matching q.
func (s *SubscriptionService) List(ctx context.Context, q SubscriptionQuery) (Page[Subscription], error) {
	q = q.normalize()
	if q.Plan != "" && !q.Plan.Valid() {
		return Page[Subscription]{}, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, q.Plan)
	}
	if q.Status != "" && !q.Status.Valid() {
		return Page[Subscription]{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}

	key, err := s.policy.KeyForList(q)
	if err != nil {
		return Page[Subscription]{}, err
	}

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (Page[Subscription], error) {
		f := SubscriptionFilter{Plan: q.Plan, Status: q.Status, CustomerID: q.CustomerID}
		return listPage(ctx, q.Pagination,
			func(ctx context.Context, offset, limit int) ([]Subscription, error) {
				return s.repo.List(ctx, f, offset, limit)
			},
			func(ctx context.Context) (int64, error) {
				return s.repo.Count(ctx, f)
			},
		)
	})
}

// Get returns the subscription with id.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (Subscription, error) {
	return cache.GetOrSet(ctx, s.cache, s.policy.KeyByID(id), s.policy.TTL(), func(ctx context.Context) (Subscription, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// Update applies upd to the subscription with id.
func (s *SubscriptionService) Update(ctx context.Context, id int64, upd SubscriptionUpdate) (Subscription, error) {
	switch {
	case upd.Plan != nil && !upd.Plan.Valid():
		return Subscription{}, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, *upd.Plan)
	case upd.Status != nil && !upd.Status.Valid():
		return Subscription{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *upd.Status)
	case upd.Price != nil && *upd.Price < 0:
		return Subscription{}, errors.Join(ErrInvalidInput, errors.New("price must not be negative"))
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return Subscription{}, err
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return Subscription{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnUpdate(id, "", ""))

	return updated, nil
}

// Delete removes the subscription with id.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnDelete(id, ""))

	return nil
}

// Statistics returns subscription counts and the revenue of active
// subscriptions, cached under "subscription:stats".
func (s *SubscriptionService) Statistics(ctx context.Context) (SubscriptionStats, error) {
	key := s.policy.AggregateKey(statsAggregate)

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (SubscriptionStats, error) {
		var stats SubscriptionStats

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stats.TotalSubscriptions, err = s.repo.Count(gctx, SubscriptionFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			stats.ActiveSubscriptions, err = s.repo.Count(gctx, SubscriptionFilter{Status: StatusActive})
			return err
		})
		g.Go(func() error {
			var err error
			stats.CancelledSubscriptions, err = s.repo.Count(gctx, SubscriptionFilter{Status: StatusCancelled})
			return err
		})
		g.Go(func() error {
			var err error
			stats.TotalRevenue, err = s.repo.SumPrice(gctx, SubscriptionFilter{Status: StatusActive})
			return err
		})
		if err := g.Wait(); err != nil {
			return SubscriptionStats{}, err
		}

		return stats, nil
	})
}
