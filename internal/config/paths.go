package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// Paths contains every file system location used by a run, all absolute
type Paths struct {
	BaseDir    string
	DataRoot   string
	OutputCSV  string
	OutputXLSX string
	LogFile    string
}

// ResolvePaths resolves the configured locations against baseDir. An empty
// baseDir means the current working directory.
func ResolvePaths(cfg *Config, ds domain.Dataset, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.NewConfigError("failed to get working directory", err)
		}
		baseDir = wd
	}

	output := cfg.Output.Path
	if output == "" {
		output = filepath.Join(DefaultOutputDir, ds.OutputFile)
	}

	p := &Paths{
		BaseDir:   baseDir,
		DataRoot:  resolve(baseDir, cfg.Aggregator.DataRoot),
		OutputCSV: resolve(baseDir, output),
		LogFile:   resolve(baseDir, cfg.Logging.FilePath),
	}
	if cfg.Output.XLSXPath != "" {
		p.OutputXLSX = resolve(baseDir, cfg.Output.XLSXPath)
	}
	return p, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ValidateDataRoot checks that the data root exists and is a directory
func (p *Paths) ValidateDataRoot() error {
	info, err := os.Stat(p.DataRoot)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("data root %s", p.DataRoot), err)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat data root %s", p.DataRoot), err)
	}
	if !info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("data root %s is not a directory", p.DataRoot), nil)
	}
	return nil
}

// LogPathResolution logs the resolved locations at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_root", p.DataRoot),
		slog.String("output_csv", p.OutputCSV),
		slog.String("output_xlsx", p.OutputXLSX),
		slog.String("log_file", p.LogFile))
}
