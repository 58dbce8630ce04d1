package cache

import (
	"errors"

	"github.com/dmitrymomot/entitycache/pkg/store"
)

// Sentinel errors for cache operations.
var (
	// ErrStoreUnavailable is returned when the underlying store cannot be reached.
	// It is the same value as store.ErrUnavailable.
	ErrStoreUnavailable = store.ErrUnavailable

	// ErrMarshal is returned when a value cannot be serialized.
	ErrMarshal = errors.New("cache: failed to marshal value")

	// ErrUnmarshal marks cached bytes that could not be decoded. Get never
	// returns it; the entry is reported as absent instead.
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)
