package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/sprintdeck/taskkit/logger"
	"github.com/sprintdeck/taskkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recording backend call outcomes and
// circuit breaker transitions. A nil *Metrics is valid and records
// nothing, so callers never have to branch on whether metrics are wired.
type Metrics struct {
	backendRequestTotal    metric.Int64Counter
	backendRequestDuration metric.Float64Histogram
	breakerTransitionTotal metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	backendRequestTotal, err := meter.Int64Counter("backend.request.total",
		metric.WithDescription("Total number of backend requests by status and error reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend.request.total counter: %w", err)
	}

	backendRequestDuration, err := meter.Float64Histogram("backend.request.duration",
		metric.WithDescription("Duration of backend requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend.request.duration histogram: %w", err)
	}

	breakerTransitionTotal, err := meter.Int64Counter("circuit_breaker.transition.total",
		metric.WithDescription("Circuit breaker state transitions by dependency and new state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating circuit_breaker.transition.total counter: %w", err)
	}

	return &Metrics{
		backendRequestTotal:    backendRequestTotal,
		backendRequestDuration: backendRequestDuration,
		breakerTransitionTotal: breakerTransitionTotal,
	}, nil
}

// RecordBackendRequest records one completed (or rejected) backend call.
// errorReason is empty for successes; "circuit_open" and "circuit_failure"
// classify rejected and failed calls.
func (m *Metrics) RecordBackendRequest(ctx context.Context, breakerTag, dependency string, statusCode int, latency time.Duration, errorReason string) {
	if m == nil {
		return
	}

	outcome := "success"
	if errorReason != "" {
		outcome = "error"
	}

	attrs := []attribute.KeyValue{
		attribute.String("breaker", breakerTag),
		attribute.String("dependency", dependency),
		attribute.Int("status_code", statusCode),
		attribute.String("outcome", outcome),
	}
	if errorReason != "" {
		attrs = append(attrs, attribute.String("error_reason", errorReason))
	}

	m.backendRequestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.backendRequestDuration.Record(ctx, float64(latency.Milliseconds()), metric.WithAttributes(
		attribute.String("breaker", breakerTag),
		attribute.String("dependency", dependency),
		attribute.String("outcome", outcome),
	))
}

// RecordCircuitBreakerEvent records a breaker state transition.
func (m *Metrics) RecordCircuitBreakerEvent(ctx context.Context, dependency, newState string) {
	if m == nil {
		return
	}
	m.breakerTransitionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("state", newState),
	))
}
