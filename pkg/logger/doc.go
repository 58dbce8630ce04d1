// Package logger builds the slog loggers used by entitycache binaries.
//
// Loggers write JSON to stdout and can inject request-scoped attributes via
// context extractors:
//
//	level, err := logger.ParseLevel(cfg.Log.Level)
//	log := logger.New(level, logger.CommandExtractor)
//
//	ctx := logger.WithCommand(ctx, "purge")
//	log.InfoContext(ctx, "purged", slog.Int64("deleted", n))
//	// {"level":"INFO","msg":"purged","deleted":3,"command":"purge"}
//
// With a Sentry DSN, warnings and errors are also forwarded to Sentry:
//
//	log, flush := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         cfg.Sentry.DSN,
//		Environment: cfg.Sentry.Environment,
//		Level:       level,
//		MinLevel:    slog.LevelWarn,
//	}, logger.CommandExtractor)
//	defer flush()
//
// An empty DSN, or a failed Sentry init, falls back to stdout only.
//
// Libraries in this module default to [NewNope] and accept a logger via options.
package logger
