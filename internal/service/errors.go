package service

import "errors"

// Sentinel errors returned by services and expected from repositories.
var (
	// ErrNotFound is returned when an entity does not exist.
	// Repositories must return it (possibly joined) for missing rows.
	ErrNotFound = errors.New("service: not found")

	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("service: conflict")

	// ErrInvalidInput is returned for input that cannot be processed,
	// including references to entities that do not exist.
	ErrInvalidInput = errors.New("service: invalid input")
)
