package stream

import (
	"fmt"
)

// Dataset is a column-named, row-ordered table of values read from a columnar file.
// Null values are nil interfaces.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]interface{}
}

// NewDataset creates an empty Dataset with the given column names.
func NewDataset(columns []string) *Dataset {
	d := &Dataset{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]interface{}, 0),
	}
	copy(d.columns, columns)
	for idx, c := range d.columns {
		d.index[c] = idx
	}
	return d
}

// AddRow appends values, which must be in column order.
func (d *Dataset) AddRow(values []interface{}) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %v values but the dataset has %v columns", len(values), len(d.columns))
	}
	d.rows = append(d.rows, values)
	return nil
}

// Columns returns a copy of the column names.
func (d *Dataset) Columns() []string {
	c := make([]string, len(d.columns))
	copy(c, d.columns)
	return c
}

func (d *Dataset) Rows() [][]interface{} {
	return d.rows
}

func (d *Dataset) NumRows() int {
	return len(d.rows)
}

func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// GetValue returns the value of column in row idx and false if the column does not exist.
func (d *Dataset) GetValue(idx int, column string) (interface{}, bool) {
	c, ok := d.index[column]
	if !ok || idx < 0 || idx >= len(d.rows) {
		return nil, false
	}
	return d.rows[idx][c], true
}

// WithoutColumns returns a new Dataset with every column for which drop returns true removed.
func (d *Dataset) WithoutColumns(drop func(column string) bool) *Dataset {
	keep := make([]int, 0, len(d.columns))
	cols := make([]string, 0, len(d.columns))
	for idx, c := range d.columns {
		if !drop(c) {
			keep = append(keep, idx)
			cols = append(cols, c)
		}
	}
	out := NewDataset(cols)
	if len(cols) == len(d.columns) { // if nothing was dropped...
		out.rows = d.rows
		return out
	}
	out.rows = make([][]interface{}, len(d.rows))
	for r, row := range d.rows {
		vals := make([]interface{}, len(keep))
		for i, idx := range keep {
			vals[i] = row[idx]
		}
		out.rows[r] = vals
	}
	return out
}
