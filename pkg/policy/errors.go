package policy

import "errors"

// Sentinel errors for policy construction and key derivation.
var (
	ErrInvalidConfig = errors.New("policy: invalid configuration")
	ErrCanonical     = errors.New("policy: query cannot be canonicalized")
)
