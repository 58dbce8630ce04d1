package store

import "errors"

var (
	// ErrNotFound is returned by Get when the key does not exist or has expired.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnavailable wraps every failure to reach the store.
	ErrUnavailable = errors.New("store: unavailable")

	// ErrClosed is returned by the memory store after Close.
	ErrClosed = errors.New("store: closed")
)
