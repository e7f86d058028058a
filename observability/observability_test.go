package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.MetricInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled skips checks", Config{}, false},
		{"enabled valid", Config{Enabled: true, ServiceName: "svc", SampleRate: 0.5, MetricInterval: time.Second}, false},
		{"enabled without name", Config{Enabled: true, SampleRate: 1, MetricInterval: time.Second}, true},
		{"sample rate out of range", Config{Enabled: true, ServiceName: "svc", SampleRate: 2, MetricInterval: time.Second}, true},
		{"interval too short", Config{Enabled: true, ServiceName: "svc", SampleRate: 1, MetricInterval: time.Millisecond}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestInitTracerAndMeter(t *testing.T) {
	cfg := Config{Enabled: true, ServiceName: "svc", Insecure: true}
	cfg.ApplyDefaults()

	ctx := context.Background()
	origTP, origMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(origTP)
		otel.SetMeterProvider(origMP)
	})

	shutdown, err := Init(ctx, cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	// No collector is listening, so shutdown may report an export error.
	_ = shutdown(shutdownCtx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
	if got := sampler(0.25).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("expected ratio sampler, got %s", got)
	}
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(orig) })
	return rec
}

func TestStartSpanAttributesAndError(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "stage.invoke")
	SetSpanAttribute(ctx, AttrStage, "prompt")
	SetSpanAttribute(ctx, "count", 3)
	SetSpanAttribute(ctx, "ratio", 0.5)
	SetSpanAttribute(ctx, "cached", true)
	SetSpanAttribute(ctx, "keys", []string{"a", "b"})
	SetSpanAttribute(ctx, "duration", time.Second)
	SetSpanError(ctx, errors.New("boom"))
	SetSpanError(ctx, nil)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name() != "stage.invoke" {
		t.Errorf("unexpected span name %s", got.Name())
	}
	if got.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status())
	}
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrStage].AsString() != "prompt" {
		t.Errorf("expected stage attribute, got %v", attrs)
	}
	if attrs["count"].AsInt64() != 3 || !attrs["cached"].AsBool() {
		t.Errorf("unexpected typed attributes %v", attrs)
	}
	if attrs["duration"].AsString() != "1s" {
		t.Errorf("expected fallback formatting, got %v", attrs["duration"])
	}
	if len(got.Events()) != 1 {
		t.Errorf("expected one error event, got %d", len(got.Events()))
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, errors.New("ignored"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetricsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordInvocation(ctx, "prompt", StatusOK, 10*time.Millisecond)
	metrics.RecordInvocation(ctx, "prompt", StatusOK, 20*time.Millisecond)
	metrics.RecordInvocation(ctx, "model", StatusError, 5*time.Millisecond)
	metrics.RecordStageError(ctx, "model", "missing_variable")
	metrics.RecordRequest(ctx, "/v1/pipelines/:name/invoke", 200, time.Millisecond)

	data := collect(t, reader)

	sum, ok := data["stage.invocations"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected stage.invocations sum, got %T", data["stage.invocations"])
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("expected 3 invocations, got %d", total)
	}

	hist, ok := data["stage.duration"].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected stage.duration histogram, got %T", data["stage.duration"])
	}
	if len(hist.DataPoints) != 2 {
		t.Errorf("expected one histogram series per stage, got %d", len(hist.DataPoints))
	}

	for _, name := range []string{"stage.errors", "http.requests", "http.duration"} {
		if _, ok := data[name]; !ok {
			t.Errorf("expected metric %s to be recorded", name)
		}
	}
}

type fixedChecker Health

func (f fixedChecker) CheckHealth(context.Context) Health { return Health(f) }

type deadlineChecker struct{ sawDeadline bool }

func (d *deadlineChecker) CheckHealth(ctx context.Context) Health {
	_, d.sawDeadline = ctx.Deadline()
	return Health{Name: "deadline", Status: HealthStatusUp}
}

func TestCheckHealth(t *testing.T) {
	ctx := context.Background()

	up := CheckHealth(ctx, "svc", "1.0.0", 0)
	if up.Status != HealthStatusUp || len(up.Components) != 0 {
		t.Errorf("expected up with no components, got %+v", up)
	}

	degraded := CheckHealth(ctx, "svc", "1.0.0", 0,
		fixedChecker{Name: "a", Status: HealthStatusUp},
		fixedChecker{Name: "b", Status: HealthStatusDegraded},
	)
	if degraded.Status != HealthStatusDegraded {
		t.Errorf("expected degraded, got %s", degraded.Status)
	}

	down := CheckHealth(ctx, "svc", "1.0.0", 0,
		fixedChecker{Name: "a", Status: HealthStatusDown},
		fixedChecker{Name: "b", Status: HealthStatusDegraded},
	)
	if down.Status != HealthStatusDown {
		t.Errorf("degraded must not override down, got %s", down.Status)
	}

	dc := &deadlineChecker{}
	CheckHealth(ctx, "svc", "", time.Second, dc)
	if !dc.sawDeadline {
		t.Error("expected checker context to carry the timeout")
	}
}
