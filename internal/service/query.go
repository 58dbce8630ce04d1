package service

import "strings"

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination selects one page of a list.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

// CustomerQuery filters the customer list.
type CustomerQuery struct {
	Pagination
	// Search matches first name, last name, email or company, case-insensitively.
	Search   string `json:"search,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

func (q CustomerQuery) normalize() CustomerQuery {
	q.Pagination = q.Pagination.normalize()
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// SubscriptionQuery filters the subscription list.
type SubscriptionQuery struct {
	Pagination
	Plan       Plan   `json:"plan,omitempty"`
	Status     Status `json:"status,omitempty"`
	CustomerID int64  `json:"customerId,omitempty"`
}

func (q SubscriptionQuery) normalize() SubscriptionQuery {
	q.Pagination = q.Pagination.normalize()
	return q
}

// UserQuery filters the user list.
type UserQuery struct {
	Pagination
	// Search matches email or name, case-insensitively.
	Search string `json:"search,omitempty"`
}

func (q UserQuery) normalize() UserQuery {
	q.Pagination = q.Pagination.normalize()
	q.Search = strings.TrimSpace(q.Search)
	return q
}
