// Package observability provides the process-wide logger, Prometheus
// collectors and the OpenTelemetry tracer provider.
package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/fairyhunter13/resumeiq/internal/config"
)

// prodSamplingRatio is the share of root traces kept in prod.
const prodSamplingRatio = 0.1

// SetupTracing exports spans to cfg.OTLPEndpoint and installs the provider
// globally. It returns a nil shutdown func when no endpoint is configured.
func SetupTracing(cfg config.Config) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		slog.Info("OTLP endpoint not set; tracing disabled")
		return nil, nil
	}

	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("op=observability.SetupTracing: %w", err)
	}
	tp, err := newTracerProvider(cfg, exporter)
	if err != nil {
		_ = exporter.Shutdown(context.Background())
		return nil, fmt.Errorf("op=observability.SetupTracing: %w", err)
	}
	slog.Info("tracing configured",
		slog.String("endpoint", cfg.OTLPEndpoint),
		slog.Float64("sampling_ratio", samplingRatio(cfg)))

	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// newTracerProvider batches spans into exp under the service resource.
func newTracerProvider(cfg config.Config, exp sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg)),
	), nil
}

// serviceResource names the service and its deployment environment.
func serviceResource(cfg config.Config) (*resource.Resource, error) {
	name := cfg.OTELServiceName
	if name == "" {
		name = "resumeiq"
	}
	return resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceNameKey.String(name),
		semconv.DeploymentEnvironmentKey.String(cfg.AppEnv),
	))
}

// newSampler follows the parent decision and samples roots by ratio.
func newSampler(cfg config.Config) sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRatio(cfg)))
}

func samplingRatio(cfg config.Config) float64 {
	if cfg.IsProd() {
		return prodSamplingRatio
	}
	return 1.0
}
