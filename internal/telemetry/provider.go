// Package telemetry wires OpenTelemetry tracing for the command-line tools.
package telemetry

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/gitrdm/gokancp/internal/config"
)

const defaultShutdownTimeout = 5 * time.Second

// Config controls the exporter. Tracing is off unless Endpoint is set.
//
// Searches open one span per Solve, so long optimization runs can be
// sampled down with SampleRatio; child spans follow their parent's
// decision.
type Config struct {
	Endpoint      string        `env:"GOKANCP_OTEL_ENDPOINT"`
	Enabled       string        `env:"GOKANCP_OTEL_ENABLED"`
	SampleRatio   float64       `env:"GOKANCP_OTEL_SAMPLE_RATIO" envDefault:"1"`
	ExportTimeout time.Duration `env:"GOKANCP_OTEL_EXPORT_TIMEOUT" envDefault:"10s"`
}

// NewSampler maps a ratio in [0, 1] to a sampler: 1 samples every root
// span, 0 none, anything in between a trace-ID ratio.
func NewSampler(ratio float64) (sdktrace.Sampler, error) {
	switch {
	case ratio < 0 || ratio > 1 || ratio != ratio:
		return nil, fmt.Errorf("sample ratio %v outside [0, 1]", ratio)
	case ratio == 1:
		return sdktrace.AlwaysSample(), nil
	case ratio == 0:
		return sdktrace.NeverSample(), nil
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when GOKANCP_OTEL_ENDPOINT is empty or
// GOKANCP_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered. Search spans then go to
// the default no-op tracer. GOKANCP_OTEL_SAMPLE_RATIO and
// GOKANCP_OTEL_EXPORT_TIMEOUT are only checked when tracing is on.
//
// The returned shutdown function flushes pending spans and should be
// deferred by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	if strings.EqualFold(cfg.Enabled, "false") || cfg.Endpoint == "" {
		return noop, nil
	}

	sampler, err := NewSampler(cfg.SampleRatio)
	if err != nil {
		return noop, fmt.Errorf("GOKANCP_OTEL_SAMPLE_RATIO: %w", err)
	}
	if cfg.ExportTimeout <= 0 {
		return noop, fmt.Errorf("GOKANCP_OTEL_EXPORT_TIMEOUT: %v must be positive", cfg.ExportTimeout)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.ExportTimeout),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Run configures tracing, executes run and flushes spans afterwards.
func Run(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
