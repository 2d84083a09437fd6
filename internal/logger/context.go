package logger

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey is unexported so only this package can place loggers in a context.
type loggerKey struct{}

// ContextWithLogger returns a child context carrying l. Handlers attach
// request-scoped fields once and downstream code picks them up via FromContext.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx. When none was attached it
// returns a no-op logger, so callers never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey{}).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return l
}
