package redis

import "errors"

// Connection and health errors. Open and Healthcheck join the driver error
// onto these, so callers match them with errors.Is.
var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrFailedToParseURL   = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
	ErrNilClient          = errors.New("redis: nil client")
)
