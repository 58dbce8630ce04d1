package logger

import (
	"context"
	"log/slog"
)

type commandKey struct{}

// WithCommand stores the running command name in ctx.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey{}, name)
}

// CommandExtractor adds a "command" attribute when ctx carries one.
func CommandExtractor(ctx context.Context) (slog.Attr, bool) {
	if name, ok := ctx.Value(commandKey{}).(string); ok && name != "" {
		return slog.String("command", name), true
	}
	return slog.Attr{}, false
}
