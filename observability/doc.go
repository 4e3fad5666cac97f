// Package observability provides OpenTelemetry tracing and metrics
// integration for pipeline runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("checkout-svc"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("checkout-svc"))
//	metrics.RecordRunEnd(ctx, "checkout", "ok", duration)
//
// Health snapshots, assembled by bootstrap from the component registry:
//
//	health := observability.NewServiceHealth("checkout-svc", "1.0.0")
//	health.AddComponent(observability.Health{Name: "tracer", Status: observability.HealthStatusUp})
package observability
