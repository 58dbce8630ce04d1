package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/entitycache/internal/config"
	"github.com/dmitrymomot/entitycache/pkg/cache"
	"github.com/dmitrymomot/entitycache/pkg/redis"
	"github.com/dmitrymomot/entitycache/pkg/store"
)

const clientName = "cachectl"

// app holds what the subcommands share. The store connection is opened on
// first use so that commands like config work without Redis.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	flush func()

	client   goredis.UniversalClient
	store    *store.Redis
	cache    *cache.Cache
	registry *prometheus.Registry
}

func (a *app) connect(ctx context.Context) error {
	if a.cache != nil {
		return nil
	}

	client, err := redis.Open(ctx, a.cfg.Redis.URL,
		redis.WithPoolSize(a.cfg.Redis.PoolSize),
		redis.WithRetry(a.cfg.Redis.RetryAttempts, time.Second),
		redis.WithClientName(clientName),
		redis.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := cache.NewMetrics(a.cfg.Metrics.Namespace, reg)
	if err != nil {
		_ = client.Close()
		return err
	}

	opts := []cache.Option{
		cache.WithLogger(a.log),
		cache.WithDefaultTTL(a.cfg.Cache.DefaultTTL),
		cache.WithMetrics(metrics),
	}
	if a.cfg.Cache.Singleflight {
		opts = append(opts, cache.WithSingleflight())
	}
	if a.cfg.Cache.FailOpen {
		opts = append(opts, cache.WithFailOpen())
	}

	a.client = client
	a.store = store.NewRedis(client, a.cfg.Redis.KeyPrefix)
	a.cache = cache.New(a.store, opts...)
	a.registry = reg

	a.log.DebugContext(ctx, "connected to store",
		slog.String("prefix", a.cfg.Redis.KeyPrefix),
		slog.Bool("singleflight", a.cfg.Cache.Singleflight),
		slog.Bool("fail_open", a.cfg.Cache.FailOpen),
	)
	return nil
}

// close releases the connection and flushes buffered Sentry events. Safe to call twice.
func (a *app) close(ctx context.Context) error {
	err := redis.Shutdown(a.client)(ctx)
	a.client, a.store, a.cache = nil, nil, nil

	if a.flush != nil {
		a.flush()
		a.flush = nil
	}
	return err
}
