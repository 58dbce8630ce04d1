package cache

import (
	"log/slog"
	"time"
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	marshaler    Marshaler
	metrics      *Metrics
	defaultTTL   time.Duration
	singleflight bool
	failOpen     bool
}

func defaultOptions() *options {
	return &options{
		logger:    slog.New(slog.DiscardHandler),
		marshaler: jsonMarshaler{},
	}
}

// WithLogger sets the logger for hit/miss debug lines and swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaultTTL sets the TTL used when a call passes zero.
// Default: 0, meaning such entries never expire.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithMarshaler replaces the JSON marshaler.
func WithMarshaler(m Marshaler) Option {
	return func(o *options) {
		if m != nil {
			o.marshaler = m
		}
	}
}

// WithMetrics records cache activity in Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSingleflight collapses concurrent GetOrSet misses for the same key in
// this process into one compute call.
//
// It is off by default: concurrent misses each run compute. Enabling it does
// not coordinate across processes.
func WithSingleflight() Option {
	return func(o *options) {
		o.singleflight = true
	}
}

// WithFailOpen makes GetOrSet compute the value when the cache lookup fails
// with a store error, instead of returning that error.
func WithFailOpen() Option {
	return func(o *options) {
		o.failOpen = true
	}
}
