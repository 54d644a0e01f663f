/*
Copyright © 2019 the Drawdown Solutions authors.
This file is part of Drawdown Solutions.

Drawdown Solutions is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Drawdown Solutions is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Drawdown Solutions.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package table implements the year-indexed tables that adoption data,
// statistics and projections are exchanged in. Missing values are
// represented as NaN, as blank spreadsheet cells would be.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Table holds float64 values indexed by year (rows) and by a string
// label (columns), for example a data source name or a region name.
type Table struct {
	// Years is the row index, in order.
	Years []int

	// Columns holds the column labels, in order.
	Columns []string

	data    [][]float64 // data[column][row]
	yearIdx map[int]int
	colIdx  map[string]int
}

// New creates a table with the given row index and columns where every
// value is NaN.
func New(years []int, columns ...string) *Table {
	t := &Table{
		Years:   append([]int(nil), years...),
		yearIdx: make(map[int]int, len(years)),
		colIdx:  make(map[string]int),
	}
	for i, y := range t.Years {
		if _, ok := t.yearIdx[y]; ok {
			panic(fmt.Errorf("table: duplicate year %d", y))
		}
		t.yearIdx[y] = i
	}
	for _, c := range columns {
		t.SetColumn(c, nil)
	}
	return t
}

// YearRange returns the inclusive sequence of years from first to last.
func YearRange(first, last int) []int {
	if last < first {
		return nil
	}
	o := make([]int, last-first+1)
	for i := range o {
		o[i] = first + i
	}
	return o
}

// NaNs returns a slice of length n filled with NaN.
func NaNs(n int) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = math.NaN()
	}
	return o
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Years) }

// YearIndex returns the row index of year.
func (t *Table) YearIndex(year int) (int, bool) {
	i, ok := t.yearIdx[year]
	return i, ok
}

// HasColumn returns whether the table contains column name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// At returns the value for the given year and column, or NaN if either
// does not exist.
func (t *Table) At(year int, column string) float64 {
	i, ok := t.yearIdx[year]
	if !ok {
		return math.NaN()
	}
	c, ok := t.colIdx[column]
	if !ok {
		return math.NaN()
	}
	return t.data[c][i]
}

// Set sets the value for the given year and column. It panics if the
// year or column is not part of the table.
func (t *Table) Set(year int, column string, v float64) {
	i, ok := t.yearIdx[year]
	if !ok {
		panic(fmt.Errorf("table: year %d is not in the index", year))
	}
	c, ok := t.colIdx[column]
	if !ok {
		panic(fmt.Errorf("table: no column %q", column))
	}
	t.data[c][i] = v
}

// Column returns a copy of the values in the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.colIdx[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), t.data[c]...), true
}

// SetColumn replaces the values of the named column, appending the column
// if it does not already exist. A nil vals sets every value to NaN.
func (t *Table) SetColumn(name string, vals []float64) {
	if vals == nil {
		vals = NaNs(len(t.Years))
	} else if len(vals) != len(t.Years) {
		panic(fmt.Errorf("table: column %q has %d values but the index has %d", name, len(vals), len(t.Years)))
	} else {
		vals = append([]float64(nil), vals...)
	}
	if c, ok := t.colIdx[name]; ok {
		t.data[c] = vals
		return
	}
	t.colIdx[name] = len(t.Columns)
	t.Columns = append(t.Columns, name)
	t.data = append(t.data, vals)
}

// Row returns the values in row i, in column order.
func (t *Table) Row(i int) []float64 {
	o := make([]float64, len(t.Columns))
	for c, d := range t.data {
		o[c] = d[i]
	}
	return o
}

// RowValues returns the values of the given columns in row i. Columns that
// do not exist are skipped.
func (t *Table) RowValues(i int, columns []string) []float64 {
	o := make([]float64, 0, len(columns))
	for _, name := range columns {
		if c, ok := t.colIdx[name]; ok {
			o = append(o, t.data[c][i])
		}
	}
	return o
}

// Select returns a new table holding only the given columns, in the given
// order. Columns that do not exist are skipped.
func (t *Table) Select(columns []string) *Table {
	o := New(t.Years)
	for _, name := range columns {
		if c, ok := t.colIdx[name]; ok {
			o.SetColumn(name, t.data[c])
		}
	}
	return o
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table { return t.Select(t.Columns) }

// Reindex returns a copy of the table with the given row index. Values for
// years not present in t are NaN.
func (t *Table) Reindex(years []int) *Table {
	o := New(years)
	for c, name := range t.Columns {
		vals := NaNs(len(years))
		for i, y := range years {
			if j, ok := t.yearIdx[y]; ok {
				vals[i] = t.data[c][j]
			}
		}
		o.SetColumn(name, vals)
	}
	return o
}

// AllNaN returns whether every value in the named column is NaN. A column
// that does not exist is considered all NaN.
func (t *Table) AllNaN(column string) bool {
	c, ok := t.colIdx[column]
	if !ok {
		return true
	}
	for _, v := range t.data[c] {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// WriteCSV writes the table to w with a "Year" header column. NaN values
// are written as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Year"}, t.Columns...)); err != nil {
		return fmt.Errorf("table: writing csv header: %v", err)
	}
	rec := make([]string, len(t.Columns)+1)
	for i, y := range t.Years {
		rec[0] = strconv.Itoa(y)
		for c, d := range t.data {
			if math.IsNaN(d[i]) {
				rec[c+1] = ""
			} else {
				rec[c+1] = strconv.FormatFloat(d[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("table: writing csv row for %d: %v", y, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NonNaN returns the values in vals that are not NaN.
func NonNaN(vals []float64) []float64 {
	o := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}
