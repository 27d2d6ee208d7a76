package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"trendcli/internal/config"
	"trendcli/pkg/contracts"
)

const (
	ServiceName = "trends"
	MeterName   = "trendcli"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName     string
	ServiceVersion  string
	Environment     string
	TraceExporter   string // "stdout", "none"
	MetricExporter  string // "prometheus", "none"
	SampleRatio     float64
	MetricsTextfile string
	// TraceWriter receives stdout trace output; nil means stderr
	TraceWriter io.Writer
}

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// always usable; they are no-ops when the matching exporter is "none".
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	metricsTextfile string
}

// NewOTelConfig maps the telemetry section of the application config
func NewOTelConfig(cfg config.TelemetryConfig) *OTelConfig {
	return &OTelConfig{
		ServiceName:     ServiceName,
		ServiceVersion:  contracts.Version,
		Environment:     cfg.Environment,
		TraceExporter:   cfg.TraceExporter,
		MetricExporter:  cfg.MetricExporter,
		SampleRatio:     cfg.SampleRatio,
		MetricsTextfile: cfg.MetricsTextfile,
	}
}

// InitializeOTel initializes tracing and metrics according to cfg
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = NewOTelConfig(config.Default().Telemetry)
	}
	if logger == nil {
		logger = GetLogger()
	}

	ctx := context.Background()

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Tracer:          tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:           metricnoop.NewMeterProvider().Meter(MeterName),
		Logger:          logger,
		metricsTextfile: cfg.MetricsTextfile,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialization complete",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.TraceExporter {
	case config.ExporterStdout:
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stderr
		}
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetTracerProvider(tp)

		providers.Logger.DebugContext(ctx, "Tracing initialized",
			slog.String("exporter", cfg.TraceExporter),
			slog.Float64("sample_ratio", cfg.SampleRatio))
	case config.ExporterNone, "":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics backed by a private
// Prometheus registry, written out as a textfile when the run ends
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case config.ExporterPrometheus:
		if cfg.MetricsTextfile == "" {
			return fmt.Errorf("prometheus exporter requires a metrics textfile")
		}

		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.Registry = registry
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)

		providers.Logger.DebugContext(ctx, "Metrics initialized",
			slog.String("exporter", cfg.MetricExporter),
			slog.String("textfile", cfg.MetricsTextfile))
	case config.ExporterNone, "":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// AggregationMetrics are the instruments recorded by a run
type AggregationMetrics struct {
	YearsProcessed metric.Int64Counter
	YearsSkipped   metric.Int64Counter
	CellsSummed    metric.Int64Counter
	CellsSkipped   metric.Int64Counter
	YearDuration   metric.Float64Histogram
}

// CreateAggregationMetrics creates the aggregation instruments on meter
func CreateAggregationMetrics(meter metric.Meter) (*AggregationMetrics, error) {
	yearsProcessed, err := meter.Int64Counter(
		"trends_years_processed",
		metric.WithDescription("Year directories summed and written to the output table"),
	)
	if err != nil {
		return nil, err
	}

	yearsSkipped, err := meter.Int64Counter(
		"trends_years_skipped",
		metric.WithDescription("Year directories without a category file that were skipped"),
	)
	if err != nil {
		return nil, err
	}

	cellsSummed, err := meter.Int64Counter(
		"trends_cells_summed",
		metric.WithDescription("Cells parsed as integers and added to a yearly total"),
	)
	if err != nil {
		return nil, err
	}

	cellsSkipped, err := meter.Int64Counter(
		"trends_cells_skipped",
		metric.WithDescription("Cells that were not integers and were ignored"),
	)
	if err != nil {
		return nil, err
	}

	yearDuration, err := meter.Float64Histogram(
		"trends_year_duration_seconds",
		metric.WithDescription("Time spent locating and summing one year's category file"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &AggregationMetrics{
		YearsProcessed: yearsProcessed,
		YearsSkipped:   yearsSkipped,
		CellsSummed:    cellsSummed,
		CellsSkipped:   cellsSkipped,
		YearDuration:   yearDuration,
	}, nil
}

// WriteMetrics writes the registry to the configured textfile. It is a
// no-op when metrics are disabled.
func (p *OTelProviders) WriteMetrics() error {
	if p.Registry == nil || p.metricsTextfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.metricsTextfile), config.DirPerm); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(p.metricsTextfile, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes and shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records err on the current span and marks it failed
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
