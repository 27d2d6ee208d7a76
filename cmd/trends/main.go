package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trendcli/internal/app"
	"trendcli/internal/config"
	apperrors "trendcli/internal/errors"
	"trendcli/internal/infrastructure"
	"trendcli/pkg/contracts"
	"trendcli/pkg/contracts/domain"
)

const shutdownTimeout = 5 * time.Second

// options holds the command line flags. Empty values leave the config untouched.
type options struct {
	configFile string
	dataRoot   string
	output     string
	dataset    string
	missing    string
	xlsx       string
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return apperrors.ExitOK
	}
	if err != nil {
		return apperrors.ExitConfig
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return apperrors.ExitOK
	}

	// Until the configured logger exists, failures are reported as JSON on stderr.
	bootstrap := apperrors.NewErrorHandler(slog.New(slog.NewJSONHandler(stderr, nil)))

	cfg, err := loadConfig(opts)
	if err != nil {
		return bootstrap.Handle(context.Background(), err)
	}
	ds, err := cfg.Dataset()
	if err != nil {
		return bootstrap.Handle(context.Background(), err)
	}
	paths, err := config.ResolvePaths(cfg, ds, "")
	if err != nil {
		return bootstrap.Handle(context.Background(), err)
	}

	cfg.Logging.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return bootstrap.Handle(context.Background(), apperrors.NewConfigError("failed to initialize logger", err))
	}
	defer infrastructure.CloseLogFile()
	handler := apperrors.NewErrorHandler(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	application, err := app.NewApplication(cfg, paths, logger, nil)
	if err != nil {
		return handler.Handle(ctx, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = application.Stop(shutdownCtx)
	}()

	result, err := application.Run(ctx)
	if err != nil {
		return handler.Handle(ctx, err)
	}

	fmt.Fprintf(stdout, "→ Wrote annual %s totals to %s\n", ds.Subject, displayPath(paths.BaseDir, result.OutputCSV))
	return apperrors.ExitOK
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to trends.yaml or configs/trends.yaml when present)")
	fs.StringVar(&opts.dataRoot, "data", "", "data root containing one directory per year (default \"data\")")
	fs.StringVar(&opts.output, "out", "", "output csv file path (defaults to public/processed/<dataset>_sex_trends.csv)")
	fs.StringVar(&opts.dataset, "dataset", "", "dataset to aggregate: "+strings.Join(domain.DatasetNames(), " | "))
	fs.StringVar(&opts.missing, "missing", "", "missing category file policy: abort | skip")
	fs.StringVar(&opts.xlsx, "xlsx", "", "also write the table to this xlsx workbook")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments")
	}
	return opts, nil
}

// loadConfig layers the flags over the loaded configuration. A .env file in
// the working directory may supply TRENDS_* variables; the real environment wins.
func loadConfig(opts *options) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.dataRoot != "" {
		cfg.Aggregator.DataRoot = opts.dataRoot
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.dataset != "" {
		cfg.Aggregator.Dataset = opts.dataset
	}
	if opts.missing != "" {
		cfg.Aggregator.MissingPolicy = opts.missing
	}
	if opts.xlsx != "" {
		cfg.Output.XLSXPath = opts.xlsx
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// displayPath shows paths under the base directory relative to it, the way
// they were most likely given.
func displayPath(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
