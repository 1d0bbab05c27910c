package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/paw-chain/pawswap/cmd/pawswap-sim"

// telemetryConfig selects the exporters installed for a run.
type telemetryConfig struct {
	// OTLPEndpoint receives scenario traces over OTLP/HTTP. Empty disables
	// tracing.
	OTLPEndpoint string
	SampleRate   float64
	ChainID      string

	// Registry receives the simulator's own metrics. Nil disables them.
	Registry *prometheus.Registry
}

// telemetryProvider owns the tracer and meter providers installed as otel
// globals for the lifetime of a run.
type telemetryProvider struct {
	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider
}

func newTelemetry(ctx context.Context, cfg telemetryConfig) (*telemetryProvider, error) {
	p := &telemetryProvider{}
	if cfg.OTLPEndpoint == "" && cfg.Registry == nil {
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("pawswap-sim"),
			attribute.String("chain.id", cfg.ChainID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.OTLPEndpoint != "" {
		if err := p.initTracing(ctx, cfg, res); err != nil {
			return nil, err
		}
	}
	if cfg.Registry != nil {
		if err := p.initMetrics(cfg.Registry, res); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *telemetryProvider) initTracing(ctx context.Context, cfg telemetryConfig, res *resource.Resource) error {
	if _, err := url.Parse(cfg.OTLPEndpoint); err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1")
	}

	endpoint := strings.TrimPrefix(cfg.OTLPEndpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithURLPath("/v1/traces"),
	))
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	p.tracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter, tracesdk.WithBatchTimeout(5*time.Second)),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(p.tracerProvider)
	return nil
}

func (p *telemetryProvider) initMetrics(reg *prometheus.Registry, res *resource.Resource) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	return nil
}

// Shutdown flushes pending spans and stops both providers.
func (p *telemetryProvider) Shutdown(ctx context.Context) error {
	var err error
	if p.tracerProvider != nil {
		if shutdownErr := p.tracerProvider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown tracer provider: %w", shutdownErr)
		}
	}
	if p.meterProvider != nil {
		if shutdownErr := p.meterProvider.Shutdown(ctx); shutdownErr != nil {
			if err != nil {
				err = fmt.Errorf("%w; failed to shutdown meter provider: %w", err, shutdownErr)
			} else {
				err = fmt.Errorf("failed to shutdown meter provider: %w", shutdownErr)
			}
		}
	}
	return err
}

// stepInstruments are the per-run counters recorded through the global
// meter provider.
type stepInstruments struct {
	steps  metric.Int64Counter
	failed metric.Int64Counter
}

func newStepInstruments() (stepInstruments, error) {
	meter := otel.Meter(instrumentationName)

	steps, err := meter.Int64Counter("pawswap_sim_steps",
		metric.WithDescription("Scenario steps applied"))
	if err != nil {
		return stepInstruments{}, err
	}
	failed, err := meter.Int64Counter("pawswap_sim_steps_failed",
		metric.WithDescription("Scenario steps that returned an error"))
	if err != nil {
		return stepInstruments{}, err
	}
	return stepInstruments{steps: steps, failed: failed}, nil
}

func (si stepInstruments) record(ctx context.Context, op string, err error) {
	attrs := metric.WithAttributes(attribute.String("op", op))
	si.steps.Add(ctx, 1, attrs)
	if err != nil {
		si.failed.Add(ctx, 1, attrs)
	}
}

func startStepSpan(ctx context.Context, index int, st Step) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "scenario.step",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("step.index", index),
			attribute.String("step.op", st.Op),
			attribute.String("step.account", st.Account),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
