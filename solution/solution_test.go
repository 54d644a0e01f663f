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

package solution

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ProjectDrawdown/solutions-sub003/adoptiondata"
	"github.com/ProjectDrawdown/solutions-sub003/customadoption"
	"github.com/ProjectDrawdown/solutions-sub003/datasource"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/scurve"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

var years = table.YearRange(2014, 2020)

// testScenario returns a scenario whose prognostication adoption is 100+r
// for region r and whose single custom scenario is 200+r. The source data
// and trend settings can be changed by mods before the model is built.
func testScenario(t *testing.T, mods ...func(map[region.Region]*table.Table, map[region.Region]adoptiondata.TrendConfig)) *Scenario {
	t.Helper()
	data := make(map[region.Region]*table.Table)
	trends := make(map[region.Region]adoptiondata.TrendConfig)
	for _, r := range region.All() {
		d := table.New(table.YearRange(2012, 2018))
		vals := make([]float64, d.Len())
		for i := range vals {
			vals[i] = 100 + float64(r)
		}
		d.SetColumn("Source", vals)
		data[r] = d
		trends[r] = adoptiondata.TrendConfig{Trend: interpolation.Linear, Growth: interpolation.Medium}
	}
	for _, mod := range mods {
		mod(data, trends)
	}
	var g datasource.Groups
	g = g.Add("", "Source", "")
	m, err := adoptiondata.NewFromData(adoptiondata.Config{Years: years, Trends: trends}, g, data,
		adoptiondata.WithCache(adoptiondata.NewCache(0)))
	if err != nil {
		t.Fatal(err)
	}

	ca := customadoption.New(years)
	custom := table.New(years)
	for _, r := range region.All() {
		vals := make([]float64, len(years))
		for i := range vals {
			vals[i] = 200 + float64(r)
		}
		custom.SetColumn(r.String(), vals)
	}
	if err := ca.AddScenario(customadoption.Scenario{Name: "custom", Data: custom, Include: true}); err != nil {
		t.Fatal(err)
	}

	return &Scenario{
		Name:            "test",
		Basis:           Prognostication,
		Prognostication: m,
		Custom:          ca,
		SCurve: &scurve.SCurve{
			Years: years,
			Config: map[region.Region]scurve.Config{
				region.India: {BaseYear: 2014, BaseAdoption: 7, PDSTAM2050: 1000, Innovation: 0.01, Imitation: 0.3},
			},
		},
	}
}

func TestAdoptionPerRegion(t *testing.T) {
	s := testScenario(t)
	s.RegionBasis = map[region.Region]Basis{
		region.China: Custom,
		region.India: Bass,
		region.EU:    Logistic,
	}
	logger, hook := logtest.NewNullLogger()
	s.Log = logger
	o, err := s.AdoptionPerRegion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	bases := hook.LastEntry().Data
	if bases[string(Custom)] != "China" || bases[string(Bass)] != "India" || bases[string(Logistic)] != "EU" {
		t.Errorf("logged bases: %v", bases)
	}
	if p := bases[string(Prognostication)]; p != "World, OECD90, Eastern Europe, Asia (Sans Japan), Middle East and Africa, Latin America, USA" {
		t.Errorf("logged prognostication regions: %v", p)
	}
	if len(o.Columns) != region.Count || o.Columns[0] != "World" {
		t.Fatalf("columns: %q", o.Columns)
	}
	if v := o.At(2020, "USA"); v != 109 {
		t.Errorf("USA: have %g, want 109", v)
	}
	if v := o.At(2020, "China"); v != 206 {
		t.Errorf("China: have %g, want 206", v)
	}
	if v := o.At(2014, "India"); v != 7 {
		t.Errorf("India: have %g, want 7", v)
	}
	if !o.AllNaN("EU") {
		t.Error("EU has no logistic configuration and should be NaN")
	}
}

func TestAdoptionPerRegionUnusedTrend(t *testing.T) {
	// China has a single data point, too few for a 2nd Poly trend.
	sparseChina := func(data map[region.Region]*table.Table, trends map[region.Region]adoptiondata.TrendConfig) {
		d := table.New([]int{2018})
		d.SetColumn("Source", []float64{106})
		data[region.China] = d
		trends[region.China] = adoptiondata.TrendConfig{Trend: interpolation.Poly2, Growth: interpolation.Medium}
	}

	s := testScenario(t, sparseChina)
	s.RegionBasis = map[region.Region]Basis{region.China: Custom}
	o, err := s.AdoptionPerRegion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v := o.At(2020, "China"); v != 206 {
		t.Errorf("China: have %g, want 206", v)
	}
	if v := o.At(2020, "World"); v != 100 {
		t.Errorf("World: have %g, want 100", v)
	}

	s = testScenario(t, sparseChina)
	_, err = s.AdoptionPerRegion(context.Background())
	var fe *interpolation.FitError
	if !errors.As(err, &fe) {
		t.Errorf("have %v, want a FitError", err)
	}
}

func TestAdoptionPerRegionMissingSource(t *testing.T) {
	s := testScenario(t)
	s.Custom = nil
	s.Basis = Custom
	if _, err := s.AdoptionPerRegion(context.Background()); err == nil {
		t.Error("expected an error")
	}
}

func TestDiagnostics(t *testing.T) {
	s := testScenario(t)
	d, err := s.Diagnostics(context.Background(), region.OECD90)
	if err != nil {
		t.Fatal(err)
	}
	if v := d.MinMaxSD.At(2015, adoptiondata.SDCol); v != 0 {
		t.Errorf("sd: have %g, want 0", v)
	}
	if v := d.LowMedHigh.At(2015, adoptiondata.MediumCol); v != 101 {
		t.Errorf("medium: have %g, want 101", v)
	}
	if d.Trend.Name != "OECD90: Linear" {
		t.Errorf("trend name: %q", d.Trend.Name)
	}
}

func TestRegionalSum(t *testing.T) {
	tb := table.New([]int{2014, 2015}, region.Names()...)
	for i, r := range region.All() {
		tb.SetColumn(r.String(), []float64{float64(i), float64(i)})
	}
	tb.Set(2014, "World", 15)
	tb.Set(2015, "Latin America", math.NaN())

	sum := RegionalSum(tb)
	if sum[0] != 15 || !math.IsNaN(sum[1]) {
		t.Errorf("have %v, want [15 NaN]", sum)
	}
	s := &Scenario{Name: "test"}
	if !s.CheckRegionalSum(tb, 0.01) {
		t.Error("World equals the regional sum")
	}
	tb.Set(2014, "World", 20)
	if s.CheckRegionalSum(tb, 0.01) {
		t.Error("World differs from the regional sum")
	}
}

func TestParseBasis(t *testing.T) {
	b, err := ParseBasis(" logistic s-curve")
	if err != nil {
		t.Fatal(err)
	}
	if b != Logistic {
		t.Errorf("have %q", b)
	}
	if _, err := ParseBasis("Linear"); err == nil {
		t.Error("expected an error")
	}
}
