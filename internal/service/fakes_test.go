package service_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/entitycache/internal/service"
)

var errRepoDown = errors.New("repository unavailable")

// customerRepo is an in-memory CustomerRepository that counts reads.
type customerRepo struct {
	mu       sync.Mutex
	rows     map[int64]service.Customer
	nextID   int64
	now      time.Time
	findByID atomic.Int32
	findByEm atomic.Int32
	lists    atomic.Int32
	failList bool
}

func newCustomerRepo() *customerRepo {
	return &customerRepo{
		rows: map[int64]service.Customer{},
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *customerRepo) Create(_ context.Context, in service.CustomerInput) (service.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.now = r.now.Add(time.Second)
	c := service.Customer{
		ID:        r.nextID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		IsActive:  true,
		CreatedAt: r.now,
		UpdatedAt: r.now,
	}
	r.rows[c.ID] = c
	return c, nil
}

func (r *customerRepo) FindByID(_ context.Context, id int64) (service.Customer, error) {
	r.findByID.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return service.Customer{}, service.ErrNotFound
	}
	return c, nil
}

func (r *customerRepo) FindByEmail(_ context.Context, email string) (service.Customer, error) {
	r.findByEm.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.rows {
		if c.Email == email {
			return c, nil
		}
	}
	return service.Customer{}, service.ErrNotFound
}

func (r *customerRepo) filtered(f service.CustomerFilter) []service.Customer {
	var out []service.Customer
	for _, c := range r.rows {
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.FirstName+" "+c.LastName+" "+c.Email), s) {
				continue
			}
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b service.Customer) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *customerRepo) List(_ context.Context, f service.CustomerFilter, offset, limit int) ([]service.Customer, error) {
	r.lists.Add(1)
	if r.failList {
		return nil, errRepoDown
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(f)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *customerRepo) Count(_ context.Context, f service.CustomerFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r *customerRepo) Update(_ context.Context, id int64, upd service.CustomerUpdate) (service.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return service.Customer{}, service.ErrNotFound
	}
	if upd.FirstName != nil {
		c.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		c.LastName = *upd.LastName
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	r.rows[id] = c
	return c, nil
}

func (r *customerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return service.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// subscriptionRepo is an in-memory SubscriptionRepository that counts reads.
type subscriptionRepo struct {
	mu       sync.Mutex
	rows     map[int64]service.Subscription
	nextID   int64
	now      time.Time
	findByID atomic.Int32
	counts   atomic.Int32
	sums     atomic.Int32
}

func newSubscriptionRepo() *subscriptionRepo {
	return &subscriptionRepo{
		rows: map[int64]service.Subscription{},
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *subscriptionRepo) Create(_ context.Context, in service.SubscriptionInput) (service.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.now = r.now.Add(time.Second)
	s := service.Subscription{
		ID:         r.nextID,
		CustomerID: in.CustomerID,
		Plan:       in.Plan,
		Status:     service.StatusActive,
		Price:      in.Price,
		StartDate:  r.now,
		EndDate:    in.EndDate,
		AutoRenew:  *in.AutoRenew,
		CreatedAt:  r.now,
		UpdatedAt:  r.now,
	}
	r.rows[s.ID] = s
	return s, nil
}

func (r *subscriptionRepo) FindByID(_ context.Context, id int64) (service.Subscription, error) {
	r.findByID.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok {
		return service.Subscription{}, service.ErrNotFound
	}
	return s, nil
}

func (r *subscriptionRepo) filtered(f service.SubscriptionFilter) []service.Subscription {
	var out []service.Subscription
	for _, s := range r.rows {
		if f.Plan != "" && s.Plan != f.Plan {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.CustomerID != 0 && s.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b service.Subscription) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *subscriptionRepo) List(_ context.Context, f service.SubscriptionFilter, offset, limit int) ([]service.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(f)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *subscriptionRepo) Count(_ context.Context, f service.SubscriptionFilter) (int64, error) {
	r.counts.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r *subscriptionRepo) SumPrice(_ context.Context, f service.SubscriptionFilter) (float64, error) {
	r.sums.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum float64
	for _, s := range r.filtered(f) {
		sum += s.Price
	}
	return sum, nil
}

func (r *subscriptionRepo) Update(_ context.Context, id int64, upd service.SubscriptionUpdate) (service.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok {
		return service.Subscription{}, service.ErrNotFound
	}
	if upd.Plan != nil {
		s.Plan = *upd.Plan
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	if upd.Price != nil {
		s.Price = *upd.Price
	}
	if upd.AutoRenew != nil {
		s.AutoRenew = *upd.AutoRenew
	}
	r.rows[id] = s
	return s, nil
}

func (r *subscriptionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return service.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// userRepo is an in-memory UserRepository that counts reads.
type userRepo struct {
	mu       sync.Mutex
	rows     map[int64]service.User
	nextID   int64
	findByID atomic.Int32
	findByEm atomic.Int32
	lists    atomic.Int32
}

func newUserRepo() *userRepo {
	return &userRepo{rows: map[int64]service.User{}}
}

func (r *userRepo) Create(_ context.Context, in service.UserInput) (service.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	u := service.User{
		ID:        r.nextID,
		Email:     in.Email,
		Name:      in.Name,
		Role:      in.Role,
		IsActive:  true,
		CreatedAt: time.Unix(r.nextID, 0).UTC(),
	}
	r.rows[u.ID] = u
	return u, nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (service.User, error) {
	r.findByID.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[id]
	if !ok {
		return service.User{}, service.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (service.User, error) {
	r.findByEm.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return service.User{}, service.ErrNotFound
}

func (r *userRepo) filtered(f service.UserFilter) []service.User {
	var out []service.User
	for _, u := range r.rows {
		if f.Search != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b service.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *userRepo) List(_ context.Context, f service.UserFilter, offset, limit int) ([]service.User, error) {
	r.lists.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(f)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *userRepo) Count(_ context.Context, f service.UserFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r *userRepo) Update(_ context.Context, id int64, upd service.UserUpdate) (service.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[id]
	if !ok {
		return service.User{}, service.ErrNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = upd.Name
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	r.rows[id] = u
	return u, nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return service.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

var (
	_ service.CustomerRepository     = (*customerRepo)(nil)
	_ service.SubscriptionRepository = (*subscriptionRepo)(nil)
	_ service.UserRepository         = (*userRepo)(nil)
)
