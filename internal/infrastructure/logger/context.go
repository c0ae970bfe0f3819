package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	callerKey    contextKey = "caller"
)

// CallerFields identifies who a request runs for
type CallerFields struct {
	TenantID       string
	OrganizationID string
	UserID         string
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	return fromContextOr(ctx, nil)
}

func fromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and attaches it to the context logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithCaller stores the caller identity and attaches it to the context logger
func WithCaller(ctx context.Context, logger *zap.Logger, caller CallerFields) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, callerKey, caller)
	enriched := logger.With(
		zap.String("tenant_id", caller.TenantID),
		zap.String("organization_id", caller.OrganizationID),
		zap.String("user_id", caller.UserID),
	)
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetCaller retrieves the caller identity from context
func GetCaller(ctx context.Context) (CallerFields, bool) {
	caller, ok := ctx.Value(callerKey).(CallerFields)
	return caller, ok
}

// L returns the context logger with trace_id and span_id attached when a span is active.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	return withSpan(ctx, FromContext(ctx))
}

// LOr is L with a service logger used when the context carries none
func LOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	return withSpan(ctx, fromContextOr(ctx, fallback))
}

func withSpan(ctx context.Context, l *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
