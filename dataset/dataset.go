package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmpty = errors.New("dataset has no header row")

// Dataset is a parsed tabular file: one header row plus zero or more data
// rows, every row with the same field count as the header.
type Dataset struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Parse reads a CSV stream into a Dataset. The first record is the header.
// Ragged rows are a parse error; callers treat any returned error as an
// unprocessable file.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		columns[i] = name
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows, index: index}, nil
}

// HasColumn reports whether the header contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Cell returns the value at the given data row for the named column.
func (d *Dataset) Cell(row int, column string) (string, bool) {
	i, ok := d.index[column]
	if !ok || row < 0 || row >= len(d.Rows) {
		return "", false
	}
	return d.Rows[row][i], true
}

// Records renders the data rows as ordered column-to-value maps, the shape
// served by the data-detail endpoint.
func (d *Dataset) Records() []map[string]string {
	records := make([]map[string]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		record := make(map[string]string, len(d.Columns))
		for i, name := range d.Columns {
			record[name] = row[i]
		}
		records = append(records, record)
	}
	return records
}
