// Package dataprocessing turns a year-organised data tree into a yearly
// trend table.
//
// # Components
//
//  1. Parser: ParseIntLenient and SumRecords add up every integer cell of a
//     category CSV, silently skipping text, blanks and decimals.
//  2. Aggregator: walks the year directories in numeric order, locates each
//     year's category file and collects one YearlyTotal per year.
//
// # Usage
//
//	agg := dataprocessing.NewAggregator(dataprocessing.Options{
//	    DataRoot:      "data",
//	    Dataset:       dataset,
//	    MissingPolicy: dataprocessing.MissingAbort,
//	}, logger, tracer, metrics)
//	table, summary, err := agg.Run(ctx)
//
// # Missing data
//
// A year directory without a category file either aborts the run
// (MissingAbort, the default) or is left out with a warning (MissingSkip).
// Aborting happens before anything is written, so the caller never sees a
// partial table.
package dataprocessing
