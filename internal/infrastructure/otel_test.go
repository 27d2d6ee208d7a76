package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendcli/internal/config"
)

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, slog.Default())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	metrics, err := CreateAggregationMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.YearsProcessed.Add(context.Background(), 1)

	assert.NoError(t, providers.WriteMetrics())
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var traces bytes.Buffer
	cfg := NewOTelConfig(config.TelemetryConfig{
		TraceExporter:  config.ExporterStdout,
		MetricExporter: config.ExporterNone,
		SampleRatio:    1,
		Environment:    "test",
	})
	cfg.TraceWriter = &traces

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "aggregate.year")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("no category file"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, traces.String(), "aggregate.year")
	assert.Contains(t, traces.String(), "no category file")
}

func TestInitializeOTel_PrometheusTextfile(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "metrics", "trends.prom")
	cfg := NewOTelConfig(config.TelemetryConfig{
		TraceExporter:   config.ExporterNone,
		MetricExporter:  config.ExporterPrometheus,
		MetricsTextfile: textfile,
		SampleRatio:     1,
	})

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, providers.Registry)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAggregationMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.YearsProcessed.Add(context.Background(), 3)
	metrics.CellsSkipped.Add(context.Background(), 1)

	require.NoError(t, providers.WriteMetrics())

	content, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "trends_years_processed")
	assert.Contains(t, string(content), "trends_cells_skipped")
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "otlp"}, slog.Default())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "prometheus"}, slog.Default())
	assert.Error(t, err)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
