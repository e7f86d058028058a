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

	"github.com/kbukum/gorunnable/logger"
)

// Invocation statuses recorded on stage metrics.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by stage and HTTP middleware.
type Metrics struct {
	stageInvocations metric.Int64Counter
	stageDuration    metric.Float64Histogram
	stageErrors      metric.Int64Counter
	requestTotal     metric.Int64Counter
	requestDuration  metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.stageInvocations, err = meter.Int64Counter("stage.invocations",
		metric.WithDescription("Stage invocations by stage and status"),
	); err != nil {
		return nil, fmt.Errorf("creating stage.invocations counter: %w", err)
	}
	if m.stageDuration, err = meter.Float64Histogram("stage.duration",
		metric.WithDescription("Stage invocation latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating stage.duration histogram: %w", err)
	}
	if m.stageErrors, err = meter.Int64Counter("stage.errors",
		metric.WithDescription("Failed stage invocations by stage and error kind"),
	); err != nil {
		return nil, fmt.Errorf("creating stage.errors counter: %w", err)
	}
	if m.requestTotal, err = meter.Int64Counter("http.requests",
		metric.WithDescription("HTTP requests by route and status code"),
	); err != nil {
		return nil, fmt.Errorf("creating http.requests counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating http.duration histogram: %w", err)
	}
	return m, nil
}

// RecordInvocation records one stage invocation.
func (m *Metrics) RecordInvocation(ctx context.Context, stage, status string, duration time.Duration) {
	m.stageInvocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// RecordStageError counts a failed invocation by error kind.
func (m *Metrics) RecordStageError(ctx context.Context, stage, kind string) {
	m.stageErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("kind", kind),
	))
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("route", route),
	))
}
