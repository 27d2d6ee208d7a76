package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trendcli/internal/config"
	"trendcli/internal/dataprocessing"
	apperrors "trendcli/internal/errors"
	"trendcli/internal/exporter"
	"trendcli/internal/shared/testutil"
)

// newTestApp builds an application over a generated data root. Output paths
// keep their defaults relative to a temp base directory.
func newTestApp(t *testing.T, years map[string]map[string]string, mutate func(*config.Config)) (*Application, *testutil.BufferedSlogHandler) {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Aggregator.DataRoot = testutil.YearTree(t, years)
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	ds, err := cfg.Dataset()
	require.NoError(t, err)
	paths, err := config.ResolvePaths(cfg, ds, base)
	require.NoError(t, err)

	logger, handler := testutil.NewTestLogger(t)
	a, err := NewApplication(cfg, paths, logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a, handler
}

func TestApplication_EndToEnd(t *testing.T) {
	a, handler := newTestApp(t, map[string]map[string]string{
		"2015": {"offender_sex_2015.csv": "Male,Female\n100,50\n"},
	}, nil)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	want := filepath.Join(a.Paths.BaseDir, "public", "processed", "offender_sex_trends.csv")
	assert.Equal(t, want, result.OutputCSV)
	assert.Equal(t, "year,total_offender_count\n2015,150\n", testutil.ReadFile(t, want))
	assert.Empty(t, result.OutputXLSX)
	assert.Equal(t, 1, result.Summary.YearsProcessed)
	testutil.AssertNoErrors(t, handler)
}

func TestApplication_NumericOrdering(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2010": {"Offender Sex.csv": "a\n1\n"},
		"201":  {"Offender Sex.csv": "a\n2\n"},
		"2009": {"Offender Sex.csv": "a\n3\n"},
	}, nil)

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "year,total_offender_count\n201,2\n2009,3\n2010,1\n", testutil.ReadFile(t, result.OutputCSV))
}

func TestApplication_MissingAbortLeavesOutputUntouched(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2015": {"Offender Sex.csv": "a\n1\n"},
		"2016": {"notes.txt": "nothing here"},
	}, nil)

	t.Run("no output created", func(t *testing.T) {
		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMissingCategoryFile))
		assert.Equal(t, apperrors.ExitMissingData, apperrors.ExitCode(err))

		_, statErr := os.Stat(a.Paths.OutputCSV)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("existing output kept", func(t *testing.T) {
		const previous = "year,total_offender_count\n1999,7\n"
		testutil.WriteFile(t, filepath.Dir(a.Paths.OutputCSV), filepath.Base(a.Paths.OutputCSV), previous)

		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, previous, testutil.ReadFile(t, a.Paths.OutputCSV))
	})
}

func TestApplication_MissingSkip(t *testing.T) {
	a, handler := newTestApp(t, map[string]map[string]string{
		"2015": {"Offender Sex.csv": "a\n1\n"},
		"2016": {},
		"2017": {"offender sex.CSV": "a,b\n2,x\n"},
	}, func(cfg *config.Config) {
		cfg.Aggregator.MissingPolicy = string(dataprocessing.MissingSkip)
	})

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "year,total_offender_count\n2015,1\n2017,2\n", testutil.ReadFile(t, result.OutputCSV))
	assert.Equal(t, []string{"2016"}, result.Summary.SkippedYears)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "No category file for year, skipping")
}

func TestApplication_Idempotent(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2011": {"Offender Sex.csv": "A,B,C\n10,abc,5\n,3,\n"},
		"2012": {"Offender Sex.csv": "n\n1\n"},
	}, nil)

	first, err := a.Run(context.Background())
	require.NoError(t, err)
	before := testutil.ReadFile(t, first.OutputCSV)

	second, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, testutil.ReadFile(t, second.OutputCSV))
	assert.Equal(t, "year,total_offender_count\n2011,18\n2012,1\n", before)
}

func TestApplication_CustomOutputDirectoryCreated(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2015": {"Offender Sex.csv": "a\n4\n"},
	}, func(cfg *config.Config) {
		cfg.Output.Path = filepath.Join("deep", "nested", "out.csv")
	})

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.Paths.BaseDir, "deep", "nested", "out.csv"), result.OutputCSV)
	assert.Equal(t, "year,total_offender_count\n2015,4\n", testutil.ReadFile(t, result.OutputCSV))
}

func TestApplication_VictimWithXLSX(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2015": {
			"Offender Sex.csv": "a\n100\n",
			"Victim Sex.csv":   "Male,Female\n3,4\n",
		},
	}, func(cfg *config.Config) {
		cfg.Aggregator.Dataset = "victim"
		cfg.Output.XLSXPath = filepath.Join("public", "processed", "victim_sex_trends.xlsx")
	})

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "victim_sex_trends.csv", filepath.Base(result.OutputCSV))
	assert.Equal(t, "year,total_offender_count\n2015,7\n", testutil.ReadFile(t, result.OutputCSV))

	f, err := excelize.OpenFile(result.OutputXLSX)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporter.TrendsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"year", "total_offender_count"}, {"2015", "7"}}, rows)
}

func TestApplication_MissingDataRoot(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{}, nil)
	require.NoError(t, os.RemoveAll(a.Paths.DataRoot))

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestApplication_WritesMetricsTextfile(t *testing.T) {
	a, _ := newTestApp(t, map[string]map[string]string{
		"2015": {"Offender Sex.csv": "a,b\n1,x\n"},
	}, func(cfg *config.Config) {
		cfg.Telemetry.MetricExporter = config.ExporterPrometheus
		cfg.Telemetry.MetricsTextfile = filepath.Join(t.TempDir(), "trends.prom")
	})

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	content := testutil.ReadFile(t, a.Config.Telemetry.MetricsTextfile)
	assert.Contains(t, content, "trends_years_processed")
	assert.Contains(t, content, "trends_cells_skipped")
}

func TestNewApplication_InvalidDataset(t *testing.T) {
	cfg := config.Default()
	cfg.Aggregator.Dataset = "unknown"

	_, err := NewApplication(cfg, &config.Paths{}, slog.Default(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
