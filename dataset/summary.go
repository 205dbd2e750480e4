package dataset

import (
	"fmt"
	"strconv"

	"github.com/tuanvudang/equip-data-service/entity"
)

// Summarize computes the aggregate summary of a schema-valid dataset.
//
// Averaging is fail-fast: an empty cell in a numeric column is skipped and
// excluded from the mean's denominator, but a non-empty cell that does not
// parse as a float fails the whole summary. A numeric column with no
// parseable rows gets no entry in Averages.
func Summarize(d *Dataset) (entity.Summary, error) {
	sums := make(map[string]float64, len(NumericColumns))
	counts := make(map[string]int, len(NumericColumns))

	for row := range d.Rows {
		for _, col := range NumericColumns {
			cell, ok := d.Cell(row, col)
			if !ok || cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return entity.Summary{}, fmt.Errorf("column %q row %d: value %q is not numeric", col, row+1, cell)
			}
			sums[col] += v
			counts[col]++
		}
	}

	averages := make(map[string]float64, len(NumericColumns))
	for _, col := range NumericColumns {
		if counts[col] > 0 {
			averages[col] = sums[col] / float64(counts[col])
		}
	}

	distribution := make(map[string]int)
	for row := range d.Rows {
		if cell, ok := d.Cell(row, TypeColumn); ok {
			distribution[cell]++
		}
	}

	return entity.Summary{
		TotalCount:       len(d.Rows),
		Averages:         averages,
		TypeDistribution: distribution,
	}, nil
}
