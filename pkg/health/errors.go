package health

import "errors"

var (
	// ErrCheckFailed is joined with one "name: cause" error per failed check.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is added when the shared deadline expired before every check returned.
	ErrCheckTimeout = errors.New("health: check timeout")
)
