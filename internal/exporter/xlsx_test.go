package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trendcli/pkg/contracts/domain"
)

func TestXLSXWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trends.xlsx")

	require.NoError(t, NewXLSXWriter(nil).WriteTable(path, sampleTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TrendsSheet}, f.GetSheetList())

	rows, err := f.GetRows(TrendsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"year", "total_offender_count"},
		{"2010", "1234"},
		{"2011", "987"},
	}, rows)

	cellType, err := f.GetCellType(TrendsSheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestXLSXWriter_KeepsYearLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.xlsx")
	table := domain.NewOutputTable("total_offender_count")
	table.Append(domain.YearlyTotal{Year: "0201", Total: 5})

	require.NoError(t, NewXLSXWriter(nil).WriteTable(path, table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(TrendsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "0201", value)
}
