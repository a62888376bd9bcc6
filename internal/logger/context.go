package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// NewRequestID mints the identifier attached to one collector request.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a context whose logger tags every line with the
// request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return withLogger(ctx, Get().With(slog.String("request_id", requestID)))
}

// WithSessionID narrows the context logger to one visitor session, so the
// ingest path can be traced per session across log lines.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withLogger(ctx, FromContext(ctx).With(slog.String("session_id", sessionID)))
}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the request-scoped logger, or the process logger when
// the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return Get()
}

// RequestIDFromContext returns the request id carried by the context, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
