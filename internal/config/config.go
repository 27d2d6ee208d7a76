package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator" envconfig:"AGGREGATOR"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AggregatorConfig selects what is scanned and how missing data is treated
type AggregatorConfig struct {
	DataRoot      string `yaml:"data_root" split_words:"true" validate:"required"`
	Dataset       string `yaml:"dataset" split_words:"true" validate:"required,oneof=offender victim"`
	MissingPolicy string `yaml:"missing_policy" split_words:"true" validate:"required,oneof=abort skip"`
}

// OutputConfig contains the output locations. An empty Path means
// public/processed/<dataset output file>.
type OutputConfig struct {
	Path     string `yaml:"path" split_words:"true"`
	XLSXPath string `yaml:"xlsx_path" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"required,oneof=debug info warn warning error"`
	Output   string `yaml:"output" split_words:"true" validate:"required,oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	TraceExporter   string  `yaml:"trace_exporter" split_words:"true" validate:"required,oneof=none stdout"`
	MetricExporter  string  `yaml:"metric_exporter" split_words:"true" validate:"required,oneof=none prometheus"`
	MetricsTextfile string  `yaml:"metrics_textfile" split_words:"true" validate:"required_if=MetricExporter prometheus"`
	SampleRatio     float64 `yaml:"sample_ratio" split_words:"true" validate:"min=0,max=1"`
	Environment     string  `yaml:"environment" split_words:"true"`
}

// Load builds the configuration from defaults, then the config file (explicit
// path or the first of the well-known locations), then TRENDS_* environment
// variables. Later sources win.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// findConfigFile returns the first existing well-known config file, or ""
func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewValidationError("config validation failed", err)
	}
	return nil
}

// Dataset returns the preset selected by Aggregator.Dataset
func (c *Config) Dataset() (domain.Dataset, error) {
	ds, err := domain.LookupDataset(c.Aggregator.Dataset)
	if err != nil {
		return domain.Dataset{}, apperrors.NewConfigError("invalid dataset", err)
	}
	return ds, nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Aggregator: AggregatorConfig{
			DataRoot:      DefaultDataRoot,
			Dataset:       domain.DatasetOffender,
			MissingPolicy: string(domain.MissingAbort),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogsDir + "/" + DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  ExporterNone,
			MetricExporter: ExporterNone,
			SampleRatio:    1.0,
			Environment:    "development",
		},
	}
}
