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

// Package scurve computes logistic and Bass diffusion S-curve adoption.
package scurve

import (
	"math"

	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/table"
)

// Config holds the S-curve parameters for one region.
type Config struct {
	BaseYear int
	LastYear int

	// BasePercent and LastPercent are the fractions of the total market
	// adopted in BaseYear and LastYear.
	BasePercent float64
	LastPercent float64

	// BaseAdoption is the adoption in BaseYear, the starting point of the
	// Bass diffusion recurrence.
	BaseAdoption float64

	// PDSTAM2050 is the total market (TAM or TLA) the curves saturate to.
	PDSTAM2050 float64

	// Innovation and Imitation are the Bass diffusion coefficients P and Q.
	Innovation float64
	Imitation  float64
}

// SCurve computes S-curve adoption for each configured region.
// Regions without a configuration are NaN.
type SCurve struct {
	Years []int

	// TransitionPeriod is the width in years of the window centered on
	// LastYear over which the logistic curve is blended into its
	// saturated plateau.
	TransitionPeriod float64

	Config map[region.Region]Config
}

// fullAdoptionLogTerm stands in for ln(1/p - 1) when p is at or above
// 0.999999. It is the value the spreadsheet arrives at for "effectively
// 1.0" and must be kept exactly as is to reproduce its results.
const fullAdoptionLogTerm = -34.65735902799730

// LastPercentLogTerm returns ln(1/p - 1), or fullAdoptionLogTerm when p is
// at or above 0.999999.
func LastPercentLogTerm(p float64) float64 {
	if p >= 0.999999 {
		return fullAdoptionLogTerm
	}
	return math.Log(1/p - 1)
}

// Logistic returns the logistic S-curve adoption for every region, with
// one column per region in canonical order.
func (s *SCurve) Logistic() *table.Table {
	o := table.New(s.Years, region.Names()...)
	for _, r := range region.All() {
		c, ok := s.Config[r]
		if !ok {
			continue
		}
		o.SetColumn(r.String(), LogisticRegion(c, s.Years, s.TransitionPeriod))
	}
	return o
}

// LogisticRegion returns the logistic S-curve adoption for a single region.
// Before the transition window the adoption follows the logistic curve
// through BasePercent in BaseYear and LastPercent in LastYear; after it the
// adoption holds at LastPercent of the market; inside it the two are
// linearly blended. Years where the algebra breaks down are NaN.
func LogisticRegion(c Config, years []int, transitionPeriod float64) []float64 {
	o := table.NaNs(len(years))
	if c.LastPercent == 0 {
		return o
	}
	a := math.Log(1/c.BasePercent - 1)
	b := LastPercentLogTerm(c.LastPercent)
	k := (a - b) / float64(c.LastYear-c.BaseYear)
	t0 := float64(c.BaseYear) + a/k
	for _, v := range []float64{a, b, k, t0} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return o
		}
	}
	m := c.PDSTAM2050
	plateau := c.LastPercent * m

	start := float64(c.LastYear) - transitionPeriod/2
	end := float64(c.LastYear) + transitionPeriod/2
	for i, y := range years {
		t := float64(y)
		first := m / (1 + math.Exp(-k*(t-t0)))
		var v float64
		switch {
		case transitionPeriod <= 0:
			if t < float64(c.LastYear) {
				v = first
			} else {
				v = plateau
			}
		case t <= start:
			v = first
		case t >= end:
			v = plateau
		default:
			w := (t - start) / transitionPeriod
			v = (1-w)*first + w*plateau
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		o[i] = v
	}
	return o
}

// Bass returns the Bass diffusion adoption for every region, with one
// column per region in canonical order.
func (s *SCurve) Bass() *table.Table {
	o := table.New(s.Years, region.Names()...)
	for _, r := range region.All() {
		c, ok := s.Config[r]
		if !ok {
			continue
		}
		o.SetColumn(r.String(), BassRegion(c, s.Years))
	}
	return o
}

// BassRegion returns the Bass diffusion adoption for a single region. It is
// NaN before BaseYear and BaseAdoption in BaseYear, and each following year
// adds (P + Q·prev/M)·(M − prev) to the previous year's adoption. The years
// must be in increasing order.
func BassRegion(c Config, years []int) []float64 {
	o := table.NaNs(len(years))
	m := c.PDSTAM2050
	// If the years start after BaseYear, the recurrence is stepped forward
	// to the first year.
	prev, prevYear := c.BaseAdoption, c.BaseYear
	for i, y := range years {
		if y < c.BaseYear {
			continue
		}
		for ; prevYear < y; prevYear++ {
			prev += (c.Innovation + c.Imitation*prev/m) * (m - prev)
		}
		if !math.IsInf(prev, 0) {
			o[i] = prev
		}
	}
	return o
}
