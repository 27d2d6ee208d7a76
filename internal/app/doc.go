// Package app wires a single aggregation run.
//
// NewApplication takes a validated config and resolved paths, sets up
// telemetry and builds the aggregator and writers. Run then:
//
//  1. checks the data root
//  2. sums the category file of every year directory
//  3. writes the CSV table, and the XLSX companion when configured
//  4. writes the metrics textfile when metrics are enabled
//
// Aggregation finishes before any output is opened. A failed run leaves an
// existing output file as it was.
//
// The app does not call os.Exit; errors are returned to the caller.
package app
