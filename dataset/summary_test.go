package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, csv string) *Dataset {
	t.Helper()
	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func TestSummarize(t *testing.T) {
	ds := mustParse(t, "Equipment Name,Type,Flowrate,Pressure,Temperature\n"+
		"E1,A,10,1,100\n"+
		"E2,A,20,3,200\n"+
		"E3,B,30,5,300\n")

	summary, err := Summarize(ds)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, map[string]float64{
		"Flowrate":    20.0,
		"Pressure":    3.0,
		"Temperature": 200.0,
	}, summary.Averages)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, summary.TypeDistribution)
}

func TestSummarizeSkipsEmptyCells(t *testing.T) {
	ds := mustParse(t, "Equipment Name,Type,Flowrate,Pressure,Temperature\n"+
		"E1,A,10,,100\n"+
		"E2,A,30,4,\n")

	summary, err := Summarize(ds)
	require.NoError(t, err)

	// Empty cells leave the denominator.
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 20.0, summary.Averages["Flowrate"])
	assert.Equal(t, 4.0, summary.Averages["Pressure"])
	assert.Equal(t, 100.0, summary.Averages["Temperature"])
}

func TestSummarizeFailsOnNonNumericCell(t *testing.T) {
	ds := mustParse(t, "Equipment Name,Type,Flowrate,Pressure,Temperature\n"+
		"E1,A,ten,1,100\n")

	_, err := Summarize(ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flowrate")
}

func TestSummarizeNoRows(t *testing.T) {
	ds := mustParse(t, "Equipment Name,Type,Flowrate,Pressure,Temperature\n")

	summary, err := Summarize(ds)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalCount)
	assert.Empty(t, summary.Averages)
	assert.Empty(t, summary.TypeDistribution)
}

func TestSummarizeDeterministic(t *testing.T) {
	csv := "Equipment Name,Type,Flowrate,Pressure,Temperature\n" +
		"E1,A,1.5,2.5,3.5\n" +
		"E2,B,4.5,5.5,6.5\n"

	first, err := Summarize(mustParse(t, csv))
	require.NoError(t, err)
	second, err := Summarize(mustParse(t, csv))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
