package service

import "time"

// Customer is a billing customer. It is cached by id, by email and in lists.
type Customer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	Country   *string   `json:"country"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerInput holds the fields of a new customer.
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Company   *string
	Address   *string
	City      *string
	Country   *string
}

// CustomerUpdate is a partial update; nil fields are left unchanged.
type CustomerUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
	Address   *string
	City      *string
	Country   *string
	IsActive  *bool
}

// Plan is a subscription tier.
type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanBasic      Plan = "BASIC"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// CustomerRef is the customer summary embedded in a subscription.
type CustomerRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Subscription is a customer's plan. It is cached by id, in lists and in the
// statistics aggregate.
type Subscription struct {
	ID         int64        `json:"id"`
	CustomerID int64        `json:"customerId"`
	Plan       Plan         `json:"plan"`
	Status     Status       `json:"status"`
	Price      float64      `json:"price"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    *time.Time   `json:"endDate"`
	AutoRenew  bool         `json:"autoRenew"`
	Customer   *CustomerRef `json:"customer,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// SubscriptionInput holds the fields of a new subscription. Zero Plan means
// FREE, nil AutoRenew means true.
type SubscriptionInput struct {
	CustomerID int64
	Plan       Plan
	Price      float64
	EndDate    *time.Time
	AutoRenew  *bool
}

// SubscriptionUpdate is a partial update; nil fields are left unchanged.
type SubscriptionUpdate struct {
	Plan      *Plan
	Status    *Status
	Price     *float64
	EndDate   *time.Time
	AutoRenew *bool
}

// SubscriptionStats is the cached subscription aggregate.
type SubscriptionStats struct {
	TotalSubscriptions     int64   `json:"totalSubscriptions"`
	ActiveSubscriptions    int64   `json:"activeSubscriptions"`
	CancelledSubscriptions int64   `json:"cancelledSubscriptions"`
	TotalRevenue           float64 `json:"totalRevenue"`
}

// Role is a user's access level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an application account. Credentials are never part of the cached value.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserInput holds the fields of a new user. Zero Role means USER.
type UserInput struct {
	Email    string
	Name     *string
	Password string
	Role     Role
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
	Role     *Role
	IsActive *bool
}

// Page is one page of a list query.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta describes a page's position in the full result.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, total int64, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Page[T]{
		Data: items,
		Meta: PageMeta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages},
	}
}
