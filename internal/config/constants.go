package config

// Application constants
const (
	AppName = "trends"

	// EnvPrefix namespaces every environment variable, e.g. TRENDS_AGGREGATOR_DATA_ROOT
	EnvPrefix = "TRENDS"

	// Default locations, relative to the base directory
	DefaultDataRoot  = "data"
	DefaultOutputDir = "public/processed"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "trends.log"

	// Telemetry exporters
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"

	// File permissions
	DirPerm  = 0755
	FilePerm = 0644
)

// configFileLocations are searched in order when no config file is given explicitly
var configFileLocations = []string{
	"trends.yaml",
	"configs/trends.yaml",
}
