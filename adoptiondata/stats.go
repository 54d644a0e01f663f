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

// Package adoptiondata turns the existing adoption prognostications of a
// solution into a trend-fitted adoption forecast for each region.
package adoptiondata

import (
	"fmt"
	"math"
	"strings"

	"github.com/ProjectDrawdown/solutions-sub003/datasource"
	"github.com/ProjectDrawdown/solutions-sub003/internal/popstat"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"gonum.org/v1/gonum/floats"
)

// Mode specifies how closely the statistics follow the spreadsheet model.
type Mode int

const (
	// ExcelCompatible reproduces the spreadsheet model exactly. Zero values
	// are treated as missing when computing the Medium estimate, and when
	// the source selector matches a single source the standard deviation
	// is still computed across all sources.
	ExcelCompatible Mode = iota

	// Strict treats zero values as data and computes the standard
	// deviation only across the matched sources.
	Strict
)

func (m Mode) String() string {
	switch m {
	case ExcelCompatible:
		return "excel"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the mode with the given name, "excel" or "strict".
// The empty string is ExcelCompatible.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel":
		return ExcelCompatible, nil
	case "strict":
		return Strict, nil
	}
	return ExcelCompatible, fmt.Errorf("adoptiondata: invalid statistics mode %q", s)
}

// TrendConfig holds the trend settings for one region.
type TrendConfig struct {
	// Trend is the kind of trend fit to the growth band.
	Trend interpolation.Kind

	// Growth selects the Low, Medium or High estimate to fit.
	Growth interpolation.Band

	// LowSDMult and HighSDMult are the number of standard deviations
	// below and above the Medium estimate for the Low and High estimates.
	LowSDMult, HighSDMult float64
}

// Column names of the statistics tables.
const (
	MinCol    = "Min"
	MaxCol    = "Max"
	SDCol     = "S.D."
	LowCol    = "Low"
	MediumCol = "Medium"
	HighCol   = "High"
)

// MinMaxSD returns the minimum, maximum and population standard deviation
// of each row of data, where each column of data is one source.
// The minimum and maximum are always taken across all sources. The
// standard deviation is taken across the sources matching selector, except
// that in ExcelCompatible mode a selector matching a single source uses all
// sources. If nothing matches the standard deviation is NaN.
func MinMaxSD(data *table.Table, selector string, groups datasource.Groups, mode Mode) *table.Table {
	o := table.New(data.Years, MinCol, MaxCol, SDCol)
	matched := datasource.MatchingColumns(groups, data.Columns, selector, false)
	sdCols := matched
	if len(matched) == 1 && mode == ExcelCompatible {
		// Excel compatibility, not general statistics: a single selected
		// source still gets the spread of the whole pool.
		sdCols = data.Columns
	}
	for i, y := range data.Years {
		if all := table.NonNaN(data.Row(i)); len(all) > 0 {
			o.Set(y, MinCol, floats.Min(all))
			o.Set(y, MaxCol, floats.Max(all))
		}
		if len(matched) == 0 {
			continue
		}
		if vals := table.NonNaN(data.RowValues(i, sdCols)); len(vals) > 0 {
			_, sd := popstat.MeanStdDev(vals)
			o.Set(y, SDCol, sd)
		}
	}
	return o
}

// LowMedHigh returns the Low, Medium and High adoption estimates. Medium is
// the mean of the sources matching selector, and Low and High are offset
// from it by the standard deviation in minMaxSD times the multipliers in
// cfg. In ExcelCompatible mode zero values are excluded from the mean.
// If nothing matches every estimate is NaN.
func LowMedHigh(data, minMaxSD *table.Table, cfg TrendConfig, selector string, groups datasource.Groups, mode Mode) *table.Table {
	o := table.New(data.Years, LowCol, MediumCol, HighCol)
	matched := datasource.MatchingColumns(groups, data.Columns, selector, false)
	if len(matched) == 0 {
		return o
	}
	for i, y := range data.Years {
		row := data.RowValues(i, matched)
		if mode == ExcelCompatible {
			// Excel compatibility, not general statistics: the spreadsheet
			// cannot tell a zero from a blank cell, so zeros are missing.
			for j, v := range row {
				if v == 0 {
					row[j] = math.NaN()
				}
			}
		}
		vals := table.NonNaN(row)
		if len(vals) == 0 {
			continue
		}
		med, _ := popstat.MeanStdDev(vals)
		sd := minMaxSD.At(y, SDCol)
		o.Set(y, MediumCol, med)
		o.Set(y, LowCol, med-sd*cfg.LowSDMult)
		o.Set(y, HighCol, med+sd*cfg.HighSDMult)
	}
	return o
}
