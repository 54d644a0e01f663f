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

package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/golang/groupcache/lru"
)

// DataLoadError is returned when a source file is missing, malformed, or
// lacks one of the region columns. It is fatal for the solution being
// constructed.
type DataLoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("datasource: loading %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("datasource: loading source %q from %s: %v", e.Source, e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// ReadRegionalCSV reads a table with a header row, a first column of
// integer years, and one column per remaining header label. Lines starting
// with '#' are ignored, cells are trimmed of whitespace, and empty cells
// are NaN.
func ReadRegionalCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := recs[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns; need a year column and at least one data column", len(header))
	}
	cols := make([]string, len(header)-1)
	seen := make(map[string]bool)
	for i, h := range header[1:] {
		h = strings.TrimSpace(h)
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
		cols[i] = h
	}

	years := make([]int, 0, len(recs)-1)
	vals := make([][]float64, len(cols))
	yearSeen := make(map[int]bool)
	for j, rec := range recs[1:] {
		line := j + 2
		y, err := parseYear(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		if yearSeen[y] {
			return nil, fmt.Errorf("line %d: duplicate year %d", line, y)
		}
		yearSeen[y] = true
		years = append(years, y)
		for i, cell := range rec[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				vals[i] = append(vals[i], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %v", line, cols[i], err)
			}
			vals[i] = append(vals[i], v)
		}
	}
	t := table.New(years)
	for i, c := range cols {
		t.SetColumn(c, vals[i])
	}
	return t, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

var (
	fileCacheMu sync.Mutex

	// fileCache holds previously parsed files to avoid reading a file that
	// is shared by several sources or solutions more than once.
	fileCache = lru.New(256)
)

// ReadRegionalFile reads the CSV file at path using ReadRegionalCSV. Parsed
// files are cached by path, so the returned table must not be modified.
func ReadRegionalFile(path string) (*table.Table, error) {
	fileCacheMu.Lock()
	if t, ok := fileCache.Get(path); ok {
		fileCacheMu.Unlock()
		return t.(*table.Table), nil
	}
	fileCacheMu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := ReadRegionalCSV(f)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	fileCacheMu.Lock()
	fileCache.Add(path, t)
	fileCacheMu.Unlock()
	return t, nil
}

// LoadRegional reads every source in groups and returns one table per
// region, where each column holds the data for one source and the rows are
// the union of the years available across sources. Either every region is
// returned or an error is.
func LoadRegional(groups Groups) (map[region.Region]*table.Table, error) {
	sources := groups.Sources()
	files := make([]*table.Table, len(sources))
	yearSet := make(map[int]bool)
	for i, s := range sources {
		t, err := ReadRegionalFile(s.Path)
		if err != nil {
			if dle, ok := err.(*DataLoadError); ok {
				dle.Source = s.Name
			}
			return nil, err
		}
		for _, r := range region.All() {
			if !t.HasColumn(r.String()) {
				return nil, &DataLoadError{
					Source: s.Name,
					Path:   s.Path,
					Err:    fmt.Errorf("missing region column %q", r.String()),
				}
			}
		}
		for _, y := range t.Years {
			yearSet[y] = true
		}
		files[i] = t
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	o := make(map[region.Region]*table.Table, region.Count)
	for _, r := range region.All() {
		o[r] = table.New(years)
	}
	for i, s := range sources {
		t := files[i].Reindex(years)
		for _, r := range region.All() {
			v, _ := t.Column(r.String())
			o[r].SetColumn(s.Name, v)
		}
	}
	return o, nil
}
