package config

import "errors"

var (
	ErrReadConfig    = errors.New("config: failed to read configuration")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
