// Package observability wraps outbound calls with tracing, metrics and
// request scoped logging.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	obsmetrics "github.com/fairyhunter13/resumeiq/internal/adapter/observability"
)

// ConnectionType names an external collaborator.
type ConnectionType string

// Collaborators the service talks to.
const (
	ConnectionTypeTika      ConnectionType = "tika"
	ConnectionTypeJobSearch ConnectionType = "jsearch"
	ConnectionTypeAI        ConnectionType = "ai"
	ConnectionTypeRedis     ConnectionType = "redis"
)

// Call statuses used as metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// ExternalClient runs calls to one collaborator under a span, a fixed
// timeout and Prometheus metrics. Calls are attempted exactly once.
type ExternalClient struct {
	ConnectionType ConnectionType
	Endpoint       string
	Timeout        time.Duration

	tracer trace.Tracer
}

// NewExternalClient creates a client. A non-positive timeout leaves the
// caller's deadline in charge.
func NewExternalClient(connectionType ConnectionType, endpoint string, timeout time.Duration) *ExternalClient {
	return &ExternalClient{
		ConnectionType: connectionType,
		Endpoint:       endpoint,
		Timeout:        timeout,
		tracer:         otel.Tracer("resumeiq"),
	}
}

// Execute runs fn with a derived context and records the outcome.
func (c *ExternalClient) Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	spanCtx, span := c.tracer.Start(ctx, fmt.Sprintf("%s.%s", c.ConnectionType, operation))
	defer span.End()

	span.SetAttributes(
		attribute.String("connection.type", string(c.ConnectionType)),
		attribute.String("endpoint", c.Endpoint),
		attribute.String("operation.name", operation),
	)

	callCtx := spanCtx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(spanCtx, c.Timeout)
		defer cancel()
		span.SetAttributes(attribute.Float64("timeout.seconds", c.Timeout.Seconds()))
	}

	start := time.Now()
	err := fn(callCtx)
	duration := time.Since(start)

	status := StatusSuccess
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "success")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		status = StatusTimeout
		span.SetStatus(codes.Error, "timeout")
		span.RecordError(err)
	default:
		status = StatusError
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.SetAttributes(
		attribute.Float64("duration.seconds", duration.Seconds()),
		attribute.Bool("success", err == nil),
	)

	obsmetrics.ObserveExternal(string(c.ConnectionType), operation, status, duration)

	lg := LoggerFromContext(ctx)
	attrs := []any{
		"connection_type", string(c.ConnectionType),
		"endpoint", c.Endpoint,
		"operation", operation,
		"duration", duration,
		"status", status,
	}
	if err != nil {
		lg.Warn("external call failed", append(attrs, "error", err.Error())...)
	} else {
		lg.Debug("external call executed", attrs...)
	}
	return err
}
