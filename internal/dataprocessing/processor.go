package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "trendcli/internal/errors"
	"trendcli/internal/files"
	"trendcli/internal/infrastructure"
	"trendcli/pkg/contracts/domain"
)

// Aggregator builds the yearly output table for one dataset. Years are
// handled one at a time: each category file is opened, summed and closed
// before the next year is looked at.
type Aggregator struct {
	opts      Options
	discovery *files.Discovery
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.AggregationMetrics
}

// NewAggregator creates an aggregator. tracer and metrics may be nil.
func NewAggregator(opts Options, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.AggregationMetrics) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	if opts.MissingPolicy == "" {
		opts.MissingPolicy = MissingAbort
	}
	return &Aggregator{
		opts:      opts,
		discovery: files.NewDiscovery(logger),
		logger:    logger.With(slog.String("component", "aggregator")),
		tracer:    tracer,
		metrics:   metrics,
	}
}

// Run discovers the year directories and sums each one's category file.
// Under MissingAbort the first year without a category file ends the run
// with an error wrapping apperrors.ErrMissingCategoryFile.
func (a *Aggregator) Run(ctx context.Context) (*domain.OutputTable, *RunSummary, error) {
	ctx, span := a.tracer.Start(ctx, "aggregate.run", trace.WithAttributes(
		attribute.String("data_root", a.opts.DataRoot),
		attribute.String("dataset", a.opts.Dataset.Name),
		attribute.String("missing_policy", string(a.opts.MissingPolicy)),
	))
	defer span.End()

	years, err := a.discovery.ListYearDirectories(a.opts.DataRoot)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, nil, err
	}

	a.logger.InfoContext(ctx, "Year directories found",
		slog.String("data_root", a.opts.DataRoot),
		slog.Int("count", len(years)))

	table := domain.NewOutputTable(a.opts.Dataset.TotalColumn)
	summary := &RunSummary{YearsFound: len(years)}

	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		row, ok, err := a.processYear(ctx, year)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, summary, err
		}
		if !ok {
			summary.SkippedYears = append(summary.SkippedYears, year.Label)
			continue
		}

		table.Append(row)
		summary.YearsProcessed++
		summary.CellsSummed += row.Cells
		summary.CellsSkipped += row.Skipped
	}

	span.SetAttributes(
		attribute.Int("years.processed", summary.YearsProcessed),
		attribute.Int("years.skipped", len(summary.SkippedYears)))
	return table, summary, nil
}

// processYear locates and sums one year. ok is false when the year was
// skipped under MissingSkip.
func (a *Aggregator) processYear(ctx context.Context, year domain.YearDirectory) (domain.YearlyTotal, bool, error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "aggregate.year", trace.WithAttributes(
		attribute.String("year", year.Label)))
	defer span.End()

	file, found, err := a.discovery.LocateCategoryFile(year, a.opts.Dataset)
	if err != nil {
		return domain.YearlyTotal{}, false, err
	}

	if !found {
		if a.opts.MissingPolicy == MissingSkip {
			a.logger.WarnContext(ctx, "No category file for year, skipping",
				slog.String("year", year.Label),
				slog.String("directory", year.Path),
				slog.String("marker", a.opts.Dataset.Marker))
			if a.metrics != nil {
				a.metrics.YearsSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("dataset", a.opts.Dataset.Name)))
			}
			span.SetAttributes(attribute.Bool("skipped", true))
			return domain.YearlyTotal{}, false, nil
		}
		return domain.YearlyTotal{}, false, apperrors.MissingCategoryFile(year.Label, year.Path, a.opts.Dataset.Marker)
	}

	row, err := SumCategoryFile(file.Path)
	if err != nil {
		return domain.YearlyTotal{}, false, fmt.Errorf("year %s: %w", year.Label, err)
	}
	row.Year = year.Label

	span.SetAttributes(
		attribute.String("file", file.Name),
		attribute.Int64("total", row.Total))

	a.logger.InfoContext(ctx, "Summed category file",
		slog.String("year", year.Label),
		slog.String("file", file.Name),
		slog.Int64("total", row.Total),
		slog.Int("rows", row.Rows),
		slog.Int("skipped_cells", row.Skipped))

	if a.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("dataset", a.opts.Dataset.Name))
		a.metrics.YearsProcessed.Add(ctx, 1, attrs)
		a.metrics.CellsSummed.Add(ctx, int64(row.Cells), attrs)
		a.metrics.CellsSkipped.Add(ctx, int64(row.Skipped), attrs)
		a.metrics.YearDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
	return row, true, nil
}
