package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/entitycache/internal/config"
	"github.com/dmitrymomot/entitycache/middlewares"
	"github.com/dmitrymomot/entitycache/pkg/logger"
)

func newRootCmd(a *app) *cobra.Command {
	var (
		configFile string
		redisURL   string
		prefix     string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "cachectl",
		Short:         "Entity cache maintenance tool",
		Long:          "Inspect, purge and invalidate cached entities, and serve health and metrics endpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var opts []config.Option
			if configFile != "" {
				opts = append(opts, config.WithFile(configFile))
			}

			flags := cmd.Flags()
			if flags.Changed("redis-url") {
				opts = append(opts, config.WithOverride("redis.url", redisURL))
			}
			if flags.Changed("prefix") {
				opts = append(opts, config.WithOverride("redis.key_prefix", prefix))
			}
			if flags.Changed("log-level") {
				opts = append(opts, config.WithOverride("log.level", logLevel))
			}

			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}

			level, err := logger.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}

			log, flush := logger.NewWithSentry(logger.SentryConfig{
				DSN:         cfg.Sentry.DSN,
				Environment: cfg.Sentry.Environment,
				Level:       level,
				MinLevel:    slog.LevelWarn,
				Output:      cmd.ErrOrStderr(),
			}, logger.CommandExtractor, middlewares.RequestIDExtractor())

			a.cfg, a.log, a.flush = cfg, log, flush
			cmd.SetContext(logger.WithCommand(cmd.Context(), cmd.Name()))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&redisURL, "redis-url", "", "Redis URL (overrides redis.url)")
	pf.StringVar(&prefix, "prefix", "", "Key prefix (overrides redis.key_prefix)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newGetCmd(a),
		newDelCmd(a),
		newPurgeCmd(a),
		newInvalidateCmd(a),
		newPingCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)

	return root
}
