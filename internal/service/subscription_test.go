package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitycache/internal/service"
)

type subscriptionFixture struct {
	svc       *service.SubscriptionService
	repo      *subscriptionRepo
	customers *service.CustomerService
	ownerID   int64
}

func newSubscriptionFixture(t *testing.T) subscriptionFixture {
	t.Helper()

	c, _ := newCache(t)
	customerRepo := newCustomerRepo()
	customers := service.NewCustomerService(customerRepo, c)
	owner := seedCustomer(t, customers, "Ann", "a@x.com")

	repo := newSubscriptionRepo()
	return subscriptionFixture{
		svc:       service.NewSubscriptionService(repo, customerRepo, c),
		repo:      repo,
		customers: customers,
		ownerID:   owner.ID,
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)

		sub, err := f.svc.Create(context.Background(), service.SubscriptionInput{CustomerID: f.ownerID})
		require.NoError(t, err)
		require.Equal(t, service.PlanFree, sub.Plan)
		require.Zero(t, sub.Price)
		require.True(t, sub.AutoRenew)
	})

	t.Run("explicit auto renew off is kept", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)

		sub, err := f.svc.Create(context.Background(), service.SubscriptionInput{
			CustomerID: f.ownerID,
			Plan:       service.PlanPro,
			Price:      49,
			AutoRenew:  ptr(false),
		})
		require.NoError(t, err)
		require.Equal(t, service.PlanPro, sub.Plan)
		require.False(t, sub.AutoRenew)
	})

	t.Run("unknown customer is invalid input", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)

		_, err := f.svc.Create(context.Background(), service.SubscriptionInput{CustomerID: 404})
		require.ErrorIs(t, err, service.ErrInvalidInput)
		require.NotErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("rejects unknown plan and negative price", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)
		ctx := context.Background()

		_, err := f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Plan: "GOLD"})
		require.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Price: -1})
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestSubscriptionService_Statistics(t *testing.T) {
	t.Parallel()

	t.Run("aggregates counts and active revenue", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)
		ctx := context.Background()

		a, err := f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Plan: service.PlanPro, Price: 50})
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Plan: service.PlanBasic, Price: 10})
		require.NoError(t, err)
		_, err = f.svc.Update(ctx, a.ID, service.SubscriptionUpdate{Status: ptr(service.StatusCancelled)})
		require.NoError(t, err)

		stats, err := f.svc.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, service.SubscriptionStats{
			TotalSubscriptions:     2,
			ActiveSubscriptions:    1,
			CancelledSubscriptions: 1,
			TotalRevenue:           10,
		}, stats)
	})

	t.Run("cached until the next write", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)
		ctx := context.Background()

		_, err := f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Price: 5})
		require.NoError(t, err)

		for range 3 {
			stats, err := f.svc.Statistics(ctx)
			require.NoError(t, err)
			require.Equal(t, int64(1), stats.TotalSubscriptions)
		}
		require.Equal(t, int32(3), f.repo.counts.Load(), "one computation runs three counts")
		require.Equal(t, int32(1), f.repo.sums.Load())

		_, err = f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Price: 5})
		require.NoError(t, err)

		stats, err := f.svc.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(2), stats.TotalSubscriptions)
		require.Equal(t, float64(10), stats.TotalRevenue)
	})

	t.Run("delete purges stats", func(t *testing.T) {
		t.Parallel()

		f := newSubscriptionFixture(t)
		ctx := context.Background()

		sub, err := f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID})
		require.NoError(t, err)

		stats, err := f.svc.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), stats.TotalSubscriptions)

		require.NoError(t, f.svc.Delete(ctx, sub.ID))

		stats, err = f.svc.Statistics(ctx)
		require.NoError(t, err)
		require.Zero(t, stats.TotalSubscriptions)
	})
}

func TestSubscriptionService_GetAndList(t *testing.T) {
	t.Parallel()

	f := newSubscriptionFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID, Plan: service.PlanPro})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, service.SubscriptionInput{CustomerID: f.ownerID})
	require.NoError(t, err)

	for range 2 {
		got, err := f.svc.Get(ctx, sub.ID)
		require.NoError(t, err)
		require.Equal(t, sub.ID, got.ID)
	}
	require.Equal(t, int32(1), f.repo.findByID.Load())

	pro, err := f.svc.List(ctx, service.SubscriptionQuery{Plan: service.PlanPro})
	require.NoError(t, err)
	require.Equal(t, int64(1), pro.Meta.Total)

	all, err := f.svc.List(ctx, service.SubscriptionQuery{CustomerID: f.ownerID})
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Meta.Total)

	_, err = f.svc.List(ctx, service.SubscriptionQuery{Status: "PAUSED"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	updated, err := f.svc.Update(ctx, sub.ID, service.SubscriptionUpdate{Plan: ptr(service.PlanEnterprise)})
	require.NoError(t, err)
	require.Equal(t, service.PlanEnterprise, updated.Plan)

	got, err := f.svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, service.PlanEnterprise, got.Plan, "update must purge the id key")

	pro, err = f.svc.List(ctx, service.SubscriptionQuery{Plan: service.PlanPro})
	require.NoError(t, err)
	require.Zero(t, pro.Meta.Total, "update must purge lists")

	_, err = f.svc.Update(ctx, 404, service.SubscriptionUpdate{Price: ptr(1.0)})
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.svc.Update(ctx, sub.ID, service.SubscriptionUpdate{Status: ptr(service.Status("PAUSED"))})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}
