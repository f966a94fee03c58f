package observability

import (
	"context"
	"log/slog"
)

// ctxKey namespaces the values stored by this package.
type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// ContextWithLogger attaches lg to ctx. A nil ctx or lg leaves ctx as is.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if ctx == nil || lg == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, lg)
}

// LoggerFromContext returns the request logger, or slog.Default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if lg := storedLogger(ctx); lg != nil {
		return lg
	}
	return slog.Default()
}

func storedLogger(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	lg, _ := ctx.Value(loggerKey).(*slog.Logger)
	return lg
}

// ContextWithRequestID stores a non-empty request id in ctx.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the stored request id or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

// Logger returns the request logger with args attached. When ctx carries a
// request id but no logger, the default logger is tagged with the id.
func Logger(ctx context.Context, args ...any) *slog.Logger {
	lg := storedLogger(ctx)
	if lg == nil {
		lg = slog.Default()
		if rid := RequestIDFromContext(ctx); rid != "" {
			lg = lg.With(slog.String("request_id", rid))
		}
	}
	if len(args) > 0 {
		lg = lg.With(args...)
	}
	return lg
}

// WithAttrs scopes the logger in ctx with args so later Logger(ctx) calls
// for the same resume repeat them.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	if ctx == nil || len(args) == 0 {
		return ctx
	}
	return ContextWithLogger(ctx, Logger(ctx, args...))
}
