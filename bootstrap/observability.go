package bootstrap

import (
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/onionkit/component"
	"github.com/kbukum/onionkit/config"
	"github.com/kbukum/onionkit/observability"
)

// tracerComponent manages the lifecycle of the global OTLP tracer provider.
func tracerComponent(base *config.ServiceConfig) component.Component {
	var tp *sdktrace.TracerProvider

	return component.NewFuncComponent("tracer", func(ctx context.Context) error {
		var err error
		tp, err = observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       base.Tracing.Endpoint,
			Insecure:       base.Tracing.Insecure,
			SampleRate:     base.Tracing.SampleRate,
		})
		return err
	}).WithStop(func(ctx context.Context) error {
		if tp == nil {
			return nil
		}
		return tp.Shutdown(ctx)
	}).WithDescription(component.Description{
		Name:    "OTLP Tracer",
		Type:    "tracer",
		Details: fmt.Sprintf("%s sample_rate=%.2f", base.Tracing.Endpoint, base.Tracing.SampleRate),
	})
}

// meterComponent manages the lifecycle of the global OTLP meter provider
// and creates the pipeline metric instruments once the provider is up.
func meterComponent(base *config.ServiceConfig, app *App) component.Component {
	var mp *sdkmetric.MeterProvider

	return component.NewFuncComponent("meter", func(ctx context.Context) error {
		var err error
		mp, err = observability.InitMeter(ctx, &observability.MeterConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       base.Metrics.Endpoint,
			Insecure:       base.Metrics.Insecure,
			Interval:       base.Metrics.Interval,
		})
		if err != nil {
			return err
		}
		app.metrics, err = observability.NewMetrics(observability.Meter(base.Name))
		return err
	}).WithStop(func(ctx context.Context) error {
		if mp == nil {
			return nil
		}
		return mp.Shutdown(ctx)
	}).WithDescription(component.Description{
		Name:    "OTLP Meter",
		Type:    "meter",
		Details: fmt.Sprintf("%s interval=%s", base.Metrics.Endpoint, base.Metrics.Interval),
	})
}
