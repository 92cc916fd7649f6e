package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/sprintdeck/taskkit/taskctx"
)

func TestSpanName(t *testing.T) {
	if got := SpanName("getTask"); got != "backend.getTask" {
		t.Errorf("expected 'backend.getTask', got %q", got)
	}
	if SpanPrefix != "backend." {
		t.Errorf("expected span prefix 'backend.', got %q", SpanPrefix)
	}
}

func TestAttributeKeyConstants(t *testing.T) {
	if AttrRequestID != "request_id" {
		t.Errorf("expected 'request_id', got %q", AttrRequestID)
	}
	if AttrBackendMethod != "backend.method" {
		t.Errorf("expected 'backend.method', got %q", AttrBackendMethod)
	}
	if AttrBackendArgsCount != "backend.args_count" {
		t.Errorf("expected 'backend.args_count', got %q", AttrBackendArgsCount)
	}
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("taskkit")

	if cfg.ServiceName != "taskkit" {
		t.Errorf("expected ServiceName 'taskkit', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("taskkit")

	if cfg.ServiceName != "taskkit" {
		t.Errorf("expected ServiceName 'taskkit', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestWithSpan_TagsRequestContext(t *testing.T) {
	exporter := setupTestTracer(t)

	ctx := taskctx.With(context.Background(), taskctx.RequestContext{
		RequestID:     "req-1",
		CorrelationID: "corr-1",
	})

	err := WithSpan(ctx, SpanName("getTask"), func(ctx context.Context, span trace.Span) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "backend.getTask" {
		t.Errorf("expected span name 'backend.getTask', got %q", spans[0].Name)
	}

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrRequestID] != "req-1" {
		t.Errorf("expected request_id 'req-1', got %q", attrs[AttrRequestID])
	}
	if attrs[AttrCorrelationID] != "corr-1" {
		t.Errorf("expected correlation_id 'corr-1', got %q", attrs[AttrCorrelationID])
	}
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", spans[0].Status.Code)
	}
}

func TestWithSpan_MarksErrorAndPropagates(t *testing.T) {
	exporter := setupTestTracer(t)

	boom := errors.New("backend exploded")
	err := WithSpan(context.Background(), SpanName("getTask"), func(ctx context.Context, span trace.Span) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the original error to propagate, got %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected Error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected a recorded error event on the span")
	}
}

func TestWithSpan_NoRequestContext(t *testing.T) {
	exporter := setupTestTracer(t)

	err := WithSpan(context.Background(), SpanName("health"), func(ctx context.Context, span trace.Span) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	for _, kv := range spans[0].Attributes {
		if string(kv.Key) == AttrRequestID {
			t.Error("request_id must not be set without a request context")
		}
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordBackendRequest(ctx, "backend", "backend-api", 200, 42*time.Millisecond, "")
	metrics.RecordBackendRequest(ctx, "backend", "backend-api", 503, 0, "circuit_open")
	metrics.RecordBackendRequest(ctx, "backend", "backend-api", 500, 120*time.Millisecond, "circuit_failure")
	metrics.RecordCircuitBreakerEvent(ctx, "backend-api", "open")
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// Recording must never alter the call outcome, even unwired.
	m.RecordBackendRequest(ctx, "backend", "backend-api", 200, time.Millisecond, "")
	m.RecordCircuitBreakerEvent(ctx, "backend-api", "closed")
}

func TestTracerAndMeter(t *testing.T) {
	if Tracer("test") == nil {
		t.Fatal("expected non-nil tracer")
	}
	if Meter("test") == nil {
		t.Fatal("expected non-nil meter")
	}
}
