package logger

import (
	"context"
	"log/slog"
)

// loggerKey is an unexported context key type to avoid collisions with keys
// defined in other packages.
type loggerKey struct{}

// WithLogger returns a new context carrying the given logger. Handlers and
// middleware use this to attach a request-scoped logger (with trace ID and
// request attributes) that lower layers can retrieve.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger stored in the context.
// If no logger is present, it returns slog.Default so callers can always
// log without nil checks.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context, falling
// back to the provided default rather than the global one. Stores use this
// with their component-scoped logger so log records keep their component
// attribute even outside a request.
func FromContextOrDefault(ctx context.Context, defaultLogger *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.Default()
}
