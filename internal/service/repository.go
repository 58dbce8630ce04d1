package service

import "context"

// CustomerFilter is the repository-level form of a customer query.
type CustomerFilter struct {
	Search   string
	IsActive *bool
}

// CustomerRepository is the persistent customer store.
// Lookups of missing rows return ErrNotFound.
type CustomerRepository interface {
	Create(ctx context.Context, in CustomerInput) (Customer, error)
	FindByID(ctx context.Context, id int64) (Customer, error)
	FindByEmail(ctx context.Context, email string) (Customer, error)
	// List returns customers newest first.
	List(ctx context.Context, f CustomerFilter, offset, limit int) ([]Customer, error)
	Count(ctx context.Context, f CustomerFilter) (int64, error)
	Update(ctx context.Context, id int64, upd CustomerUpdate) (Customer, error)
	Delete(ctx context.Context, id int64) error
}

// SubscriptionFilter is the repository-level form of a subscription query.
// Zero fields do not filter.
type SubscriptionFilter struct {
	Plan       Plan
	Status     Status
	CustomerID int64
}

// SubscriptionRepository is the persistent subscription store.
// Lookups of missing rows return ErrNotFound.
type SubscriptionRepository interface {
	Create(ctx context.Context, in SubscriptionInput) (Subscription, error)
	FindByID(ctx context.Context, id int64) (Subscription, error)
	// List returns subscriptions newest first.
	List(ctx context.Context, f SubscriptionFilter, offset, limit int) ([]Subscription, error)
	Count(ctx context.Context, f SubscriptionFilter) (int64, error)
	// SumPrice returns the total price of matching subscriptions.
	SumPrice(ctx context.Context, f SubscriptionFilter) (float64, error)
	Update(ctx context.Context, id int64, upd SubscriptionUpdate) (Subscription, error)
	Delete(ctx context.Context, id int64) error
}

// UserFilter is the repository-level form of a user query.
type UserFilter struct {
	Search string
}

// UserRepository is the persistent user store. It owns password hashing.
// Lookups of missing rows return ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, in UserInput) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// List returns users newest first.
	List(ctx context.Context, f UserFilter, offset, limit int) ([]User, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (User, error)
	Delete(ctx context.Context, id int64) error
}
