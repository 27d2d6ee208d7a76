package app

import (
	"context"
	"fmt"
	"log/slog"

	"trendcli/internal/config"
	"trendcli/internal/dataprocessing"
	"trendcli/internal/exporter"
	"trendcli/internal/infrastructure"
	"trendcli/pkg/contracts"
	"trendcli/pkg/contracts/domain"
)

// Application wires one aggregation run: configuration, paths, the
// aggregator, the writers and telemetry.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Dataset       domain.Dataset
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Aggregator    *dataprocessing.Aggregator
	CSVWriter     *exporter.CSVWriter
	XLSXWriter    *exporter.XLSXWriter
}

// Result describes a completed run
type Result struct {
	Dataset    domain.Dataset
	OutputCSV  string
	OutputXLSX string
	Table      *domain.OutputTable
	Summary    *dataprocessing.RunSummary
}

// NewApplication creates the application from a validated config and its
// resolved paths. A nil providers value initializes telemetry from
// cfg.Telemetry.
func NewApplication(cfg *config.Config, paths *config.Paths, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ds, err := cfg.Dataset()
	if err != nil {
		return nil, err
	}
	policy, err := dataprocessing.ParseMissingPolicy(cfg.Aggregator.MissingPolicy)
	if err != nil {
		return nil, err
	}

	if providers == nil {
		providers, err = infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	metrics, err := infrastructure.CreateAggregationMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Dataset:       ds,
		Logger:        logger,
		OTelProviders: providers,
		Aggregator: dataprocessing.NewAggregator(dataprocessing.Options{
			DataRoot:      paths.DataRoot,
			Dataset:       ds,
			MissingPolicy: policy,
		}, logger, providers.Tracer, metrics),
		CSVWriter: exporter.NewCSVWriter(logger),
	}
	if paths.OutputXLSX != "" {
		a.XLSXWriter = exporter.NewXLSXWriter(logger)
	}
	return a, nil
}

// Run aggregates every year and writes the outputs. Nothing is written
// when aggregation fails, so an existing output file is left untouched.
func (a *Application) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	a.Logger.InfoContext(ctx, "Starting aggregation",
		slog.String("version", contracts.Version),
		slog.String("dataset", a.Dataset.Name),
		slog.String("data_root", a.Paths.DataRoot),
		slog.String("output_file", a.Paths.OutputCSV),
		slog.String("missing_policy", a.Config.Aggregator.MissingPolicy))
	a.Paths.LogPathResolution(a.Logger)

	if err := a.Paths.ValidateDataRoot(); err != nil {
		return nil, err
	}

	table, summary, err := a.Aggregator.Run(ctx)
	a.flushMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.CSVWriter.WriteTable(a.Paths.OutputCSV, table); err != nil {
		return nil, err
	}
	result := &Result{
		Dataset:   a.Dataset,
		OutputCSV: a.Paths.OutputCSV,
		Table:     table,
		Summary:   summary,
	}

	if a.XLSXWriter != nil {
		if err := a.XLSXWriter.WriteTable(a.Paths.OutputXLSX, table); err != nil {
			return nil, err
		}
		result.OutputXLSX = a.Paths.OutputXLSX
	}

	a.Logger.InfoContext(ctx, "Aggregation completed",
		slog.Int("years_found", summary.YearsFound),
		slog.Int("years_processed", summary.YearsProcessed),
		slog.Int("years_skipped", len(summary.SkippedYears)),
		slog.Int("cells_summed", summary.CellsSummed),
		slog.Int("cells_skipped", summary.CellsSkipped),
		slog.String("output_path", a.Paths.OutputCSV))

	return result, nil
}

func (a *Application) flushMetrics(ctx context.Context) {
	if err := a.OTelProviders.WriteMetrics(); err != nil {
		a.Logger.WarnContext(ctx, "Failed to write metrics textfile", slog.String("error", err.Error()))
	}
}

// Stop flushes and shuts down telemetry
func (a *Application) Stop(ctx context.Context) error {
	if a.OTelProviders == nil {
		return nil
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		return err
	}
	return nil
}
