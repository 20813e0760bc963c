package logger

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

// WithRequestID stores a request id in the context for FromContext to
// pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom returns the request id stored in ctx, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// FromContext returns the default logger, annotated with the request
// id when one is present.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if id, ok := RequestIDFrom(ctx); ok {
		l = l.With("request_id", id)
	}
	return l
}
