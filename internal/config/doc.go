// Package config provides configuration management for the trends tool.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Default values
//	2. YAML file (-config flag, or trends.yaml / configs/trends.yaml)
//	3. Environment variables prefixed with TRENDS_
//	4. Command line flags (applied by the command)
//
// # Environment Variables
//
//	TRENDS_AGGREGATOR_DATA_ROOT=data
//	TRENDS_AGGREGATOR_DATASET=offender
//	TRENDS_AGGREGATOR_MISSING_POLICY=abort
//	TRENDS_OUTPUT_PATH=public/processed/offender_sex_trends.csv
//	TRENDS_OUTPUT_XLSX_PATH=
//	TRENDS_LOGGING_LEVEL=info
//	TRENDS_TELEMETRY_METRIC_EXPORTER=prometheus
//	TRENDS_TELEMETRY_METRICS_TEXTFILE=/var/lib/node_exporter/trends.prom
//
// # Path Management
//
// ResolvePaths turns the configured, possibly relative, locations into
// absolute paths anchored at a base directory (the working directory by
// default, so a run from the project root reads ./data and writes
// ./public/processed).
package config
