package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/entitycache/pkg/cache"
	"github.com/dmitrymomot/entitycache/pkg/policy"
)

// CustomerService serves customers through the cache.
//
// Reads go through cache-aside lookups keyed by id, email or the canonical
// list query. Writes hit the repository first and then purge every key the
// write could have made stale.
type CustomerService struct {
	repo   CustomerRepository
	cache  *cache.Cache
	policy *policy.Policy[int64]
	logger *slog.Logger
}

// NewCustomerService creates a customer service.
func NewCustomerService(repo CustomerRepository, c *cache.Cache, opts ...Option) *CustomerService {
	o := newOptions(opts)
	return &CustomerService{
		repo:   repo,
		cache:  c,
		policy: CustomerPolicy(o.ttl),
		logger: o.logger.With(slog.String("service", CustomerNamespace)),
	}
}

// Policy returns the cache policy in use.
func (s *CustomerService) Policy() *policy.Policy[int64] { return s.policy }

// Create stores a new customer. A taken email returns ErrConflict.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (Customer, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return Customer{}, errors.Join(ErrInvalidInput, errors.New("email is required"))
	}

	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return Customer{}, err
	}

	customer, err := s.repo.Create(ctx, in)
	if err != nil {
		return Customer{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnCreate())

	return customer, nil
}

// List returns one page of customers matching q.
func (s *CustomerService) List(ctx context.Context, q CustomerQuery) (Page[Customer], error) {
	q = q.normalize()

	key, err := s.policy.KeyForList(q)
	if err != nil {
		return Page[Customer]{}, err
	}

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (Page[Customer], error) {
		f := CustomerFilter{Search: q.Search, IsActive: q.IsActive}
		return listPage(ctx, q.Pagination,
			func(ctx context.Context, offset, limit int) ([]Customer, error) {
				return s.repo.List(ctx, f, offset, limit)
			},
			func(ctx context.Context) (int64, error) {
				return s.repo.Count(ctx, f)
			},
		)
	})
}

// Get returns the customer with id. A missing customer returns ErrNotFound
// and is not cached.
func (s *CustomerService) Get(ctx context.Context, id int64) (Customer, error) {
	return cache.GetOrSet(ctx, s.cache, s.policy.KeyByID(id), s.policy.TTL(), func(ctx context.Context) (Customer, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// GetByEmail returns the customer with email.
func (s *CustomerService) GetByEmail(ctx context.Context, email string) (Customer, error) {
	key, ok := s.policy.KeyByUnique(email)
	if !ok {
		return Customer{}, errors.Join(ErrInvalidInput, errors.New("email is required"))
	}

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (Customer, error) {
		return s.repo.FindByEmail(ctx, email)
	})
}

// Update applies upd to the customer with id. Moving to an email held by
// another customer returns ErrConflict.
func (s *CustomerService) Update(ctx context.Context, id int64, upd CustomerUpdate) (Customer, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}

	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" {
			return Customer{}, errors.Join(ErrInvalidInput, errors.New("email must not be empty"))
		}
		upd.Email = &email
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return Customer{}, err
		}
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return Customer{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnUpdate(id, existing.Email, updated.Email))

	return updated, nil
}

// Delete removes the customer with id.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnDelete(id, existing.Email))

	return nil
}

// ensureEmailFree returns ErrConflict when email belongs to a customer other than owner.
func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, owner int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != owner:
		return fmt.Errorf("%w: customer with email %s already exists", ErrConflict, email)
	}
	return nil
}
