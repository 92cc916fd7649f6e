// Package observability provides OpenTelemetry tracing and metrics for
// outbound backend calls.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("taskkit"))
//	defer tp.Shutdown(ctx)
//
//	err = observability.WithSpan(ctx, observability.SpanName("getTask"), func(ctx context.Context, span trace.Span) error {
//	    return client.GetTask(ctx, id)
//	})
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("taskkit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("taskkit"))
//	metrics.RecordBackendRequest(ctx, "backend", "backend-api", 200, latency, "")
//
// Span names follow the "backend.<operation>" template; downstream
// dashboards and alerts filter on it, so the prefix is a stable contract.
package observability
