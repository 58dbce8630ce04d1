package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ENTITYCACHE_REDIS_URL.
const EnvPrefix = "ENTITYCACHE"

// Config is the runtime configuration.
type Config struct {
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Sentry  SentryConfig  `mapstructure:"sentry" yaml:"sentry"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
}

// RedisConfig configures the store connection.
type RedisConfig struct {
	URL           string `mapstructure:"url" yaml:"url"`
	KeyPrefix     string `mapstructure:"key_prefix" yaml:"key_prefix"`
	PoolSize      int    `mapstructure:"pool_size" yaml:"pool_size"`
	RetryAttempts int    `mapstructure:"retry_attempts" yaml:"retry_attempts"`
}

// CacheConfig configures the facade and the per-entity TTLs.
type CacheConfig struct {
	DefaultTTL      time.Duration `mapstructure:"default_ttl" yaml:"default_ttl"`
	CustomerTTL     time.Duration `mapstructure:"customer_ttl" yaml:"customer_ttl"`
	SubscriptionTTL time.Duration `mapstructure:"subscription_ttl" yaml:"subscription_ttl"`
	UserTTL         time.Duration `mapstructure:"user_ttl" yaml:"user_ttl"`
	Singleflight    bool          `mapstructure:"singleflight" yaml:"singleflight"`
	FailOpen        bool          `mapstructure:"fail_open" yaml:"fail_open"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// HTTPConfig configures the health and metrics server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

var defaults = map[string]any{
	"redis.url":              "redis://localhost:6379/0",
	"redis.key_prefix":       "app:",
	"redis.pool_size":        10,
	"redis.retry_attempts":   3,
	"cache.default_ttl":      "30m",
	"cache.customer_ttl":     "30m",
	"cache.subscription_ttl": "30m",
	"cache.user_ttl":         "30m",
	"cache.singleflight":     false,
	"cache.fail_open":        false,
	"log.level":              "info",
	"sentry.dsn":             "",
	"sentry.environment":     "development",
	"metrics.namespace":      "entitycache",
	"http.addr":              ":8080",
}

// Option customizes Load.
type Option func(*loadOptions)

type loadOptions struct {
	overrides map[string]any
	file      string
}

// WithFile reads a YAML config file. A missing file is an error.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithOverride sets key above file and environment values, e.g. from a CLI flag.
func WithOverride(key string, value any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any)
		}
		o.overrides[key] = value
	}
}

// Load builds the configuration from defaults, an optional file, ENTITYCACHE_*
// environment variables and overrides, in increasing precedence, then validates it.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.file != "" {
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Join(ErrReadConfig, err)
		}
	}

	for k, val := range o.overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Redis.URL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		errs = append(errs, fmt.Errorf("redis.url must be a redis:// or rediss:// URL, got %q", c.Redis.URL))
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("redis.pool_size must be positive, got %d", c.Redis.PoolSize))
	}
	if c.Redis.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("redis.retry_attempts must be positive, got %d", c.Redis.RetryAttempts))
	}

	if c.Cache.DefaultTTL < 0 {
		errs = append(errs, fmt.Errorf("cache.default_ttl must not be negative, got %s", c.Cache.DefaultTTL))
	}
	for name, ttl := range map[string]time.Duration{
		"cache.customer_ttl":     c.Cache.CustomerTTL,
		"cache.subscription_ttl": c.Cache.SubscriptionTTL,
		"cache.user_ttl":         c.Cache.UserTTL,
	} {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, ttl))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if c.Metrics.Namespace == "" || strings.ContainsAny(c.Metrics.Namespace, "-:. ") {
		errs = append(errs, fmt.Errorf("metrics.namespace must be a non-empty metric name segment, got %q", c.Metrics.Namespace))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Redacted returns a copy safe to print: credentials in the Redis URL and the
// Sentry DSN are masked.
func (c Config) Redacted() Config {
	if u, err := url.Parse(c.Redis.URL); err == nil {
		c.Redis.URL = u.Redacted()
	}
	if c.Sentry.DSN != "" {
		c.Sentry.DSN = "xxxxx"
	}
	return c
}
