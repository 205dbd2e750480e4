package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	csv := "Equipment Name, Type, Flowrate, Pressure, Temperature\n" +
		"Pump-1, Pump, 10, 1, 100\n" +
		"Valve-2, Valve, 20, 3, 200\n"

	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"Pump-1", "Pump", "10", "1", "100"}, ds.Rows[0])

	cell, ok := ds.Cell(1, "Type")
	require.True(t, ok)
	assert.Equal(t, "Valve", cell)

	_, ok = ds.Cell(0, "Nope")
	assert.False(t, ok)
	_, ok = ds.Cell(5, "Type")
	assert.False(t, ok)
}

func TestParseHeaderOnly(t *testing.T) {
	ds, err := Parse(strings.NewReader("Equipment Name,Type,Flowrate,Pressure,Temperature\n"))
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParseRaggedRow(t *testing.T) {
	csv := "A,B,C\n1,2,3\n1,2\n"
	_, err := Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	csv := "Equipment Name,Type\nPump-1,Pump\nValve-2,Valve\n"
	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	records := ds.Records()
	require.Len(t, records, 2)
	assert.Equal(t, map[string]string{"Equipment Name": "Pump-1", "Type": "Pump"}, records[0])
	assert.Equal(t, map[string]string{"Equipment Name": "Valve-2", "Type": "Valve"}, records[1])
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{
			name:   "all present",
			header: "Equipment Name,Type,Flowrate,Pressure,Temperature",
			want:   nil,
		},
		{
			name:   "one missing",
			header: "Equipment Name,Type,Flowrate,Temperature",
			want:   []string{"Pressure"},
		},
		{
			name:   "keeps required order",
			header: "Equipment Name,Pressure",
			want:   []string{"Type", "Flowrate", "Temperature"},
		},
		{
			name:   "all missing",
			header: "foo,bar",
			want:   []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(strings.NewReader(tt.header + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Missing(ds, RequiredColumns))
		})
	}
}
