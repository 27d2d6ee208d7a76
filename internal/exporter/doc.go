// Package exporter writes the yearly trend table.
//
// CSVWriter produces the primary output: a header row "year,<total column>"
// followed by one row per year. XLSXWriter optionally writes the same table
// as a workbook with a single "Trends" sheet.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteTable("public/processed/offender_sex_trends.csv", table)
package exporter
