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

const minPasswordLength = 6

// UserService serves users through the cache with the same protocol as
// [CustomerService].
type UserService struct {
	repo   UserRepository
	cache  *cache.Cache
	policy *policy.Policy[int64]
	logger *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(repo UserRepository, c *cache.Cache, opts ...Option) *UserService {
	o := newOptions(opts)
	return &UserService{
		repo:   repo,
		cache:  c,
		policy: UserPolicy(o.ttl),
		logger: o.logger.With(slog.String("service", UserNamespace)),
	}
}

// Policy returns the cache policy in use.
func (s *UserService) Policy() *policy.Policy[int64] { return s.policy }

// Create stores a new user. A taken email returns ErrConflict.
func (s *UserService) Create(ctx context.Context, in UserInput) (User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return User{}, errors.Join(ErrInvalidInput, errors.New("email is required"))
	}
	if len(in.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if in.Role == "" {
		in.Role = RoleUser
	}
	if !in.Role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, in)
	if err != nil {
		return User{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnCreate())

	return user, nil
}

// List returns one page of users matching q.
func (s *UserService) List(ctx context.Context, q UserQuery) (Page[User], error) {
	q = q.normalize()

	key, err := s.policy.KeyForList(q)
	if err != nil {
		return Page[User]{}, err
	}

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (Page[User], error) {
		f := UserFilter{Search: q.Search}
		return listPage(ctx, q.Pagination,
			func(ctx context.Context, offset, limit int) ([]User, error) {
				return s.repo.List(ctx, f, offset, limit)
			},
			func(ctx context.Context) (int64, error) {
				return s.repo.Count(ctx, f)
			},
		)
	})
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id int64) (User, error) {
	return cache.GetOrSet(ctx, s.cache, s.policy.KeyByID(id), s.policy.TTL(), func(ctx context.Context) (User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// GetByEmail returns the user with email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (User, error) {
	key, ok := s.policy.KeyByUnique(email)
	if !ok {
		return User{}, errors.Join(ErrInvalidInput, errors.New("email is required"))
	}

	return cache.GetOrSet(ctx, s.cache, key, s.policy.TTL(), func(ctx context.Context) (User, error) {
		return s.repo.FindByEmail(ctx, email)
	})
}

// Update applies upd to the user with id.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if upd.Password != nil && len(*upd.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *upd.Role)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" {
			return User{}, errors.Join(ErrInvalidInput, errors.New("email must not be empty"))
		}
		upd.Email = &email
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return User{}, err
		}
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return User{}, err
	}

	invalidate(ctx, s.cache, s.logger, s.policy.OnUpdate(id, existing.Email, updated.Email))

	return updated, nil
}

// Delete removes the user with id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
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

func (s *UserService) ensureEmailFree(ctx context.Context, email string, owner int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != owner:
		return fmt.Errorf("%w: email %s already exists", ErrConflict, email)
	}
	return nil
}
