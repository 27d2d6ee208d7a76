package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputTable_Records(t *testing.T) {
	table := NewOutputTable("total_offender_count")
	table.Append(YearlyTotal{Year: "2010", Total: 1234})
	table.Append(YearlyTotal{Year: "2011", Total: -7})

	assert.Equal(t, []string{"year", "total_offender_count"}, table.Headers())
	assert.Equal(t, [][]string{{"2010", "1234"}, {"2011", "-7"}}, table.Records())
	assert.Equal(t, 2, table.Len())
}

func TestOutputTable_EmptyRecords(t *testing.T) {
	table := NewOutputTable("total_offender_count")
	assert.NotNil(t, table.Records())
	assert.Empty(t, table.Records())
}

func TestLookupDataset(t *testing.T) {
	tests := []struct {
		name       string
		dataset    string
		wantMarker string
		wantColumn string
		wantErr    bool
	}{
		{"offender preset", DatasetOffender, "offender sex", "total_offender_count", false},
		{"victim preset", DatasetVictim, "victim sex", "total_offender_count", false},
		{"unknown", "arrestee", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LookupDataset(tt.dataset)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "arrestee")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarker, ds.Marker)
			assert.Equal(t, tt.wantColumn, ds.TotalColumn)
			assert.Equal(t, ".csv", ds.Extension)
		})
	}
}

func TestDatasetNames(t *testing.T) {
	assert.Equal(t, []string{"offender", "victim"}, DatasetNames())
}
