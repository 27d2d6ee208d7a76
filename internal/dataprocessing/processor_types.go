package dataprocessing

import (
	"fmt"

	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// MissingPolicy decides what happens to a year without a category file
type MissingPolicy = domain.MissingPolicy

const (
	MissingAbort = domain.MissingAbort
	MissingSkip  = domain.MissingSkip
)

// ParseMissingPolicy converts a configuration value to a MissingPolicy
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case MissingAbort, MissingSkip:
		return MissingPolicy(s), nil
	default:
		return "", apperrors.NewConfigError(fmt.Sprintf("unknown missing policy %q", s), nil)
	}
}

// Options configures an Aggregator
type Options struct {
	DataRoot      string
	Dataset       domain.Dataset
	MissingPolicy MissingPolicy
}

// RunSummary describes what a run did
type RunSummary struct {
	YearsFound     int
	YearsProcessed int
	SkippedYears   []string
	CellsSummed    int
	CellsSkipped   int
}
