package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "escrowd"

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	PrometheusEnabled bool
	SampleRate        float64
}

// Telemetry traces and counts message deliveries.
type Telemetry struct {
	tracer trace.Tracer

	msgCounter  metric.Int64Counter
	msgDuration metric.Float64Histogram
	blockHeight metric.Int64Gauge

	shutdownFuncs []func(context.Context) error
}

// NoopTelemetry returns telemetry that records nothing.
func NoopTelemetry() *Telemetry {
	t, err := NewTelemetry(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	if err != nil {
		panic(err)
	}
	return t
}

// NewTelemetry creates delivery instruments on the given providers.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	meter := mp.Meter(serviceName)

	msgCounter, err := meter.Int64Counter(
		"escrow.host.messages",
		metric.WithDescription("Total delivered escrow messages"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	msgDuration, err := meter.Float64Histogram(
		"escrow.host.deliver_time",
		metric.WithDescription("Message delivery time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	blockHeight, err := meter.Int64Gauge(
		"escrow.host.height",
		metric.WithDescription("Last committed height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		tracer:      tp.Tracer(serviceName),
		msgCounter:  msgCounter,
		msgDuration: msgDuration,
		blockHeight: blockHeight,
	}, nil
}

// InitTelemetry builds SDK providers from cfg and installs them globally. Spans are
// exported over OTLP/HTTP when an endpoint is set; metrics are exposed through the
// Prometheus exporter when enabled.
func InitTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	if !cfg.Enabled {
		return NoopTelemetry(), nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("chain.id", DefaultChainID),
	)

	var (
		tp        trace.TracerProvider = tracenoop.NewTracerProvider()
		mp        metric.MeterProvider = metricnoop.NewMeterProvider()
		shutdowns []func(context.Context) error
	)

	if cfg.OTLPEndpoint != "" {
		if _, err := url.Parse(cfg.OTLPEndpoint); err != nil {
			return nil, fmt.Errorf("invalid otlp endpoint: %w", err)
		}
		endpoint := strings.TrimPrefix(cfg.OTLPEndpoint, "http://")
		exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
		if err != nil {
			return nil, err
		}

		provider := tracesdk.NewTracerProvider(
			tracesdk.WithBatcher(exp),
			tracesdk.WithResource(res),
			tracesdk.WithSampler(tracesdk.ParentBased(
				tracesdk.TraceIDRatioBased(cfg.SampleRate),
			)),
		)
		otel.SetTracerProvider(provider)
		tp = provider
		shutdowns = append(shutdowns, provider.Shutdown)
	}

	if cfg.PrometheusEnabled {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, err
		}
		provider := metricsdk.NewMeterProvider(
			metricsdk.WithResource(res),
			metricsdk.WithReader(exporter),
		)
		otel.SetMeterProvider(provider)
		mp = provider
		shutdowns = append(shutdowns, provider.Shutdown)
	}

	t, err := NewTelemetry(tp, mp)
	if err != nil {
		return nil, err
	}
	t.shutdownFuncs = shutdowns
	return t, nil
}

// Shutdown flushes and stops the exporters.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdownFuncs {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

// StartDeliver opens the span covering one delivered message.
func (t *Telemetry) StartDeliver(ctx context.Context, msgType string, height int64) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "escrow.deliver", trace.WithAttributes(
		attribute.String("msg.type", msgType),
		attribute.Int64("block.height", height),
	))
}

// FinishDeliver records the outcome of a delivery and ends its span.
func (t *Telemetry) FinishDeliver(ctx context.Context, span trace.Span, msgType string, height int64, duration time.Duration, err error) {
	defer span.End()

	status := "success"
	if err != nil {
		status = "failed"
		codespace, code, _ := errorsmod.ABCIInfo(err, false)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String("error.codespace", codespace),
			attribute.Int64("error.code", int64(code)),
		)
	} else {
		span.SetStatus(codes.Ok, "")
		t.blockHeight.Record(ctx, height)
	}

	attrs := metric.WithAttributes(
		attribute.String("msg.type", msgType),
		attribute.String("msg.status", status),
	)
	t.msgCounter.Add(ctx, 1, attrs)
	t.msgDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}
