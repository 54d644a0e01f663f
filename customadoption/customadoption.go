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

// Package customadoption blends user-supplied adoption scenarios into a
// single adoption forecast.
package customadoption

import (
	"fmt"
	"math"

	"github.com/ProjectDrawdown/solutions-sub003/internal/popstat"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/sirupsen/logrus"
)

// The selections that blend all included scenarios rather than picking one
// by name.
const (
	Average = "Average of All Custom Scenarios"
	High    = "High of All Custom Scenarios"
	Low     = "Low of All Custom Scenarios"
)

// Scenario is a custom adoption scenario.
type Scenario struct {
	Name        string
	Description string

	// Data holds the adoption with one row per model year and one column
	// per region. Regions without data must be NaN rather than zero.
	Data *table.Table

	// Include specifies whether the scenario contributes to the average,
	// high and low of all scenarios.
	Include bool
}

// ValidationError is returned when a scenario does not have the expected
// regions and years.
type ValidationError struct {
	Scenario string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("customadoption: invalid scenario %q: %s", e.Scenario, e.Reason)
}

// CustomAdoption holds a set of custom adoption scenarios for one solution.
type CustomAdoption struct {
	Years []int

	// Selection is the name of the scenario to use as the solution
	// adoption, or one of Average, High and Low.
	Selection string

	// LowSDMult and HighSDMult are the number of standard deviations below
	// and above the mean used for the Low and High selections.
	LowSDMult, HighSDMult float64

	// Limit, if set, is the total addressable market or land area. The
	// selected adoption is capped to it wherever it is not NaN.
	Limit *table.Table

	Log logrus.FieldLogger

	scenarios []*Scenario
}

// New returns a CustomAdoption for the given model years.
func New(years []int) *CustomAdoption {
	return &CustomAdoption{
		Years:      append([]int(nil), years...),
		Selection:  Average,
		LowSDMult:  1,
		HighSDMult: 1,
		Log:        logrus.StandardLogger(),
	}
}

// AddScenario validates s and adds it to the set. The scenario data must
// have exactly one column for each region, in any order, and exactly the
// model years in order. The stored data is a copy with the columns in
// canonical region order.
func (ca *CustomAdoption) AddScenario(s Scenario) error {
	if s.Data == nil {
		return &ValidationError{Scenario: s.Name, Reason: "no data"}
	}
	for _, e := range ca.scenarios {
		if e.Name == s.Name {
			return &ValidationError{Scenario: s.Name, Reason: "duplicate scenario name"}
		}
	}
	if len(s.Data.Years) != len(ca.Years) {
		return &ValidationError{Scenario: s.Name,
			Reason: fmt.Sprintf("has %d years; want %d", len(s.Data.Years), len(ca.Years))}
	}
	for i, y := range s.Data.Years {
		if y != ca.Years[i] {
			return &ValidationError{Scenario: s.Name,
				Reason: fmt.Sprintf("row %d is year %d; want %d", i, y, ca.Years[i])}
		}
	}
	data := table.New(ca.Years)
	seen := make(map[region.Region]bool)
	cols := make(map[region.Region]string)
	for _, c := range s.Data.Columns {
		r, err := region.Parse(c)
		if err != nil {
			return &ValidationError{Scenario: s.Name, Reason: fmt.Sprintf("unexpected column %q", c)}
		}
		if seen[r] {
			return &ValidationError{Scenario: s.Name, Reason: fmt.Sprintf("duplicate region %q", r)}
		}
		seen[r] = true
		cols[r] = c
	}
	for _, r := range region.All() {
		if !seen[r] {
			return &ValidationError{Scenario: s.Name, Reason: fmt.Sprintf("missing region %q", r)}
		}
		v, _ := s.Data.Column(cols[r])
		data.SetColumn(r.String(), v)
	}
	s.Data = data
	ca.scenarios = append(ca.scenarios, &s)
	ca.Log.WithFields(logrus.Fields{
		"scenario": s.Name,
		"include":  s.Include,
	}).Debug("added custom adoption scenario")
	return nil
}

// Scenarios returns the scenarios in the order they were added.
func (ca *CustomAdoption) Scenarios() []Scenario {
	o := make([]Scenario, len(ca.scenarios))
	for i, s := range ca.scenarios {
		o[i] = *s
	}
	return o
}

// Scenario returns the scenario with the given name.
func (ca *CustomAdoption) Scenario(name string) (Scenario, bool) {
	for _, s := range ca.scenarios {
		if s.Name == name {
			return *s, true
		}
	}
	return Scenario{}, false
}

// meanSD returns the mean and population standard deviation of the
// included scenarios for each region and year. For each region only the
// scenarios with data for that region contribute; regions without any
// contributing scenario are NaN.
func (ca *CustomAdoption) meanSD() (mean, sd *table.Table) {
	mean = table.New(ca.Years, region.Names()...)
	sd = table.New(ca.Years, region.Names()...)
	for _, r := range region.All() {
		var cols [][]float64
		for _, s := range ca.scenarios {
			if !s.Include || s.Data.AllNaN(r.String()) {
				continue
			}
			c, _ := s.Data.Column(r.String())
			cols = append(cols, c)
		}
		if len(cols) == 0 {
			continue
		}
		m := table.NaNs(len(ca.Years))
		d := table.NaNs(len(ca.Years))
		row := make([]float64, len(cols))
		for i := range ca.Years {
			for j, c := range cols {
				row[j] = c[i]
			}
			vals := table.NonNaN(row)
			if len(vals) == 0 {
				continue
			}
			m[i], d[i] = popstat.MeanStdDev(vals)
		}
		mean.SetColumn(r.String(), m)
		sd.SetColumn(r.String(), d)
	}
	return mean, sd
}

// AvgHighLow returns the mean of the included scenarios and the mean plus
// and minus numSDs population standard deviations.
func (ca *CustomAdoption) AvgHighLow(numSDs float64) (mean, high, low *table.Table) {
	return ca.avgHighLow(numSDs, numSDs)
}

func (ca *CustomAdoption) avgHighLow(lowSDs, highSDs float64) (mean, high, low *table.Table) {
	mean, sd := ca.meanSD()
	high = table.New(ca.Years)
	low = table.New(ca.Years)
	for _, name := range mean.Columns {
		m, _ := mean.Column(name)
		d, _ := sd.Column(name)
		h := make([]float64, len(m))
		l := make([]float64, len(m))
		for i := range m {
			h[i] = m[i] + d[i]*highSDs
			l[i] = m[i] - d[i]*lowSDs
		}
		high.SetColumn(name, h)
		low.SetColumn(name, l)
	}
	return mean, high, low
}

// AdoptionPerRegion returns the adoption for the selected scenario, or the
// average, high or low of all included scenarios, capped to Limit.
func (ca *CustomAdoption) AdoptionPerRegion() (*table.Table, error) {
	var o *table.Table
	switch ca.Selection {
	case Average, High, Low:
		mean, high, low := ca.avgHighLow(ca.LowSDMult, ca.HighSDMult)
		o = map[string]*table.Table{Average: mean, High: high, Low: low}[ca.Selection]
	default:
		s, ok := ca.Scenario(ca.Selection)
		if !ok {
			return nil, fmt.Errorf("customadoption: no scenario named %q", ca.Selection)
		}
		o = s.Data.Clone()
	}
	if ca.Limit != nil {
		ca.applyLimit(o)
	}
	return o, nil
}

func (ca *CustomAdoption) applyLimit(t *table.Table) {
	for _, name := range t.Columns {
		for _, y := range t.Years {
			lim := ca.Limit.At(y, name)
			if math.IsNaN(lim) {
				continue
			}
			if v := t.At(y, name); v > lim {
				t.Set(y, name, lim)
			}
		}
	}
}
