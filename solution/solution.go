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

// Package solution selects, for each region, how a solution scenario's
// adoption is projected and assembles the resulting adoption table.
package solution

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ProjectDrawdown/solutions-sub003/adoptiondata"
	"github.com/ProjectDrawdown/solutions-sub003/customadoption"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/scurve"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Basis is the method used to project adoption for a region.
type Basis string

// The adoption bases.
const (
	Prognostication Basis = "Existing Adoption Prognostications"
	Custom          Basis = "Fully Customized PDS"
	Logistic        Basis = "Logistic S-Curve"
	Bass            Basis = "Bass Diffusion S-Curve"
)

// ParseBasis returns the basis with the given name, ignoring case.
func ParseBasis(s string) (Basis, error) {
	s = strings.TrimSpace(s)
	for _, b := range []Basis{Prognostication, Custom, Logistic, Bass} {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("solution: invalid adoption basis %q", s)
}

// Scenario is a solution scenario. Only the adoption sources used by the
// selected bases need to be set.
type Scenario struct {
	Name string

	// Years are the years of the adoption table. If empty, the years of
	// Prognostication or adoptiondata.DefaultYears are used.
	Years []int

	// Basis is the adoption basis for regions not in RegionBasis.
	Basis       Basis
	RegionBasis map[region.Region]Basis

	Prognostication *adoptiondata.Model
	Custom          *customadoption.CustomAdoption
	SCurve          *scurve.SCurve

	Log logrus.FieldLogger
}

// Diagnostics holds the intermediate results of the existing
// prognostication path for one region.
type Diagnostics struct {
	Region     region.Region
	MinMaxSD   *table.Table
	LowMedHigh *table.Table
	Trend      *interpolation.Trend
}

func (s *Scenario) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *Scenario) years() []int {
	switch {
	case len(s.Years) > 0:
		return s.Years
	case s.Prognostication != nil:
		return s.Prognostication.Years()
	default:
		return adoptiondata.DefaultYears
	}
}

// RegionBasisFor returns the adoption basis for region r.
func (s *Scenario) RegionBasisFor(r region.Region) Basis {
	if b, ok := s.RegionBasis[r]; ok && b != "" {
		return b
	}
	return s.Basis
}

// AdoptionPerRegion returns the projected adoption for every region, with
// one column per region, each taken from the adoption source its basis
// selects. Each basis is computed once, for the regions that use it.
func (s *Scenario) AdoptionPerRegion(ctx context.Context) (*table.Table, error) {
	years := s.years()
	var bases []Basis
	regions := make(map[Basis][]region.Region)
	for _, r := range region.All() {
		b := s.RegionBasisFor(r)
		if _, ok := regions[b]; !ok {
			bases = append(bases, b)
		}
		regions[b] = append(regions[b], r)
	}

	o := table.New(years, region.Names()...)
	fields := logrus.Fields{"scenario": s.Name}
	for _, b := range bases {
		src, err := s.adoption(ctx, b, regions[b])
		if err != nil {
			return nil, fmt.Errorf("solution: %s: %s: %w", s.Name, regionList(regions[b]), err)
		}
		src = src.Reindex(years)
		for _, r := range regions[b] {
			v, _ := src.Column(r.String())
			o.SetColumn(r.String(), v)
		}
		fields[string(b)] = regionList(regions[b])
	}
	s.log().WithFields(fields).Info("solution computed adoption")
	return o, nil
}

func regionList(regions []region.Region) string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

// adoption returns the adoption using basis b. Only the columns of regions
// are guaranteed to be computed.
func (s *Scenario) adoption(ctx context.Context, b Basis, regions []region.Region) (*table.Table, error) {
	switch b {
	case Prognostication:
		if s.Prognostication == nil {
			return nil, fmt.Errorf("no adoption data for basis %q", b)
		}
		return s.Prognostication.TrendsFor(ctx, regions)
	case Custom:
		if s.Custom == nil {
			return nil, fmt.Errorf("no custom adoption scenarios for basis %q", b)
		}
		return s.Custom.AdoptionPerRegion()
	case Logistic, Bass:
		if s.SCurve == nil {
			return nil, fmt.Errorf("no S-curve configuration for basis %q", b)
		}
		if b == Logistic {
			return s.SCurve.Logistic(), nil
		}
		return s.SCurve.Bass(), nil
	}
	return nil, fmt.Errorf("invalid adoption basis %q", b)
}

// Diagnostics returns the statistics and the selected trend of the
// existing prognostications for region r.
func (s *Scenario) Diagnostics(ctx context.Context, r region.Region) (*Diagnostics, error) {
	if s.Prognostication == nil {
		return nil, fmt.Errorf("solution: %s: no adoption data", s.Name)
	}
	d := &Diagnostics{Region: r}
	var err error
	if d.MinMaxSD, err = s.Prognostication.MinMaxSD(ctx, r); err != nil {
		return nil, err
	}
	if d.LowMedHigh, err = s.Prognostication.LowMedHigh(ctx, r); err != nil {
		return nil, err
	}
	if d.Trend, err = s.Prognostication.SelectedTrend(ctx, r); err != nil {
		return nil, err
	}
	return d, nil
}

// RegionalSum returns the sum of the main regions for each row of t, which
// must have one column per region. Rows where any main region is NaN are
// NaN.
func RegionalSum(t *table.Table) []float64 {
	o := make([]float64, t.Len())
	for i := range o {
		vals := t.RowValues(i, mainNames())
		if len(vals) != len(region.Main()) {
			o[i] = math.NaN()
			continue
		}
		o[i] = floats.Sum(vals)
	}
	return o
}

func mainNames() []string {
	var o []string
	for _, r := range region.Main() {
		o = append(o, r.String())
	}
	return o
}

// CheckRegionalSum reports whether the World adoption in t is within
// tolerance, relative to World, of the sum of the main regions in every
// year where both are available, and logs a warning for each year where it
// is not.
func (s *Scenario) CheckRegionalSum(t *table.Table, tolerance float64) bool {
	sum := RegionalSum(t)
	world, ok := t.Column(region.World.String())
	if !ok {
		return true
	}
	consistent := true
	for i, y := range t.Years {
		if math.IsNaN(sum[i]) || math.IsNaN(world[i]) {
			continue
		}
		if math.Abs(world[i]-sum[i]) > tolerance*math.Abs(world[i]) {
			consistent = false
			s.log().WithFields(logrus.Fields{
				"scenario":     s.Name,
				"year":         y,
				"world":        world[i],
				"regional sum": sum[i],
			}).Warn("solution regional adoption does not add up to World")
		}
	}
	return consistent
}
