package domain

import (
	"strconv"
)

// YearDirectory is a directory under the data root whose name is a decimal digit string.
type YearDirectory struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Path  string `json:"path"`
	// Overflow is set when the label does not fit in an int; Year is then zero.
	Overflow bool `json:"overflow,omitempty"`
}

// CategoryFile is the tabular file selected inside a year directory.
type CategoryFile struct {
	Year    YearDirectory `json:"year"`
	Name    string        `json:"name"`
	Path    string        `json:"path"`
	Ignored []string      `json:"ignored,omitempty"`
}

// YearlyTotal holds the sum of every integer cell of one year's category file.
type YearlyTotal struct {
	Year    string `json:"year"`
	Total   int64  `json:"total"`
	Rows    int    `json:"rows"`
	Cells   int    `json:"cells"`
	Skipped int    `json:"skipped"`
}

// OutputTable is the ordered (year, total) series written to the output file.
type OutputTable struct {
	Header [2]string     `json:"header"`
	Rows   []YearlyTotal `json:"rows"`
}

// NewOutputTable creates an empty table whose second column is named totalColumn
func NewOutputTable(totalColumn string) *OutputTable {
	return &OutputTable{
		Header: [2]string{YearColumn, totalColumn},
		Rows:   make([]YearlyTotal, 0),
	}
}

// Append adds a row after the existing ones.
func (t *OutputTable) Append(row YearlyTotal) {
	t.Rows = append(t.Rows, row)
}

// Headers returns the header row as a slice.
func (t *OutputTable) Headers() []string {
	return []string{t.Header[0], t.Header[1]}
}

// Records renders the data rows, without the header, as CSV-ready strings.
func (t *OutputTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, []string{row.Year, strconv.FormatInt(row.Total, 10)})
	}
	return records
}

// Len returns the number of data rows.
func (t *OutputTable) Len() int {
	return len(t.Rows)
}
