package domain

import (
	"fmt"
	"sort"
)

// YearColumn is the fixed name of the first output column.
const YearColumn = "year"

// MissingPolicy decides what happens to a year directory without a category file.
type MissingPolicy string

const (
	// MissingAbort fails the run before any output is written.
	MissingAbort MissingPolicy = "abort"
	// MissingSkip logs a warning and leaves the year out of the table.
	MissingSkip MissingPolicy = "skip"
)

// Dataset describes which category file to look for and how to name the result.
type Dataset struct {
	Name        string `json:"name" yaml:"name"`
	Marker      string `json:"marker" yaml:"marker"`
	Extension   string `json:"extension" yaml:"extension"`
	TotalColumn string `json:"total_column" yaml:"total_column"`
	OutputFile  string `json:"output_file" yaml:"output_file"`
	// Subject is used in the completion message, e.g. "offender sex".
	Subject string `json:"subject" yaml:"subject"`
}

const (
	DatasetOffender = "offender"
	DatasetVictim   = "victim"
)

var datasets = map[string]Dataset{
	DatasetOffender: {
		Name:        DatasetOffender,
		Marker:      "offender sex",
		Extension:   ".csv",
		TotalColumn: "total_offender_count",
		OutputFile:  "offender_sex_trends.csv",
		Subject:     "offender sex",
	},
	// Chart consumers read total_offender_count from both trend files.
	DatasetVictim: {
		Name:        DatasetVictim,
		Marker:      "victim sex",
		Extension:   ".csv",
		TotalColumn: "total_offender_count",
		OutputFile:  "victim_sex_trends.csv",
		Subject:     "victim sex",
	},
}

// LookupDataset returns the preset registered under name.
func LookupDataset(name string) (Dataset, error) {
	ds, ok := datasets[name]
	if !ok {
		return Dataset{}, fmt.Errorf("unknown dataset %q (known: %v)", name, DatasetNames())
	}
	return ds, nil
}

// DatasetNames lists the preset names in sorted order.
func DatasetNames() []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
