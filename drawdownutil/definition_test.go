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


package drawdownutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ProjectDrawdown/solutions-sub003/adoptiondata"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/solution"
	"github.com/kr/pretty"
)

func TestReadDefinition(t *testing.T) {
	d, err := ReadDefinition("testdata/solution.toml")
	if err != nil {
		t.Fatal(err)
	}
	years, err := d.Years()
	if err != nil {
		t.Fatal(err)
	}
	if len(years) != 7 || years[0] != 2014 {
		t.Errorf("years: %v", years)
	}

	g := d.Groups()
	if len(g) != 2 || g[0].Name != "Baseline Cases" || g[1].Name != "Ambitious Cases" {
		t.Errorf("groups: %# v", pretty.Formatter(g))
	}
	if p := g[0].Sources[0].Path; p != filepath.Join("testdata", "source_a.csv") {
		t.Errorf("path: %s", p)
	}

	trends, err := d.TrendConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := adoptiondata.TrendConfig{
		Trend:      interpolation.Poly2,
		Growth:     interpolation.High,
		LowSDMult:  1,
		HighSDMult: 1.5,
	}
	if diff := pretty.Diff(trends[region.EU], want); len(diff) > 0 {
		t.Errorf("EU trend: %v", diff)
	}
	if trends[region.USA].HighSDMult != 1 {
		t.Errorf("default multiplier: %g", trends[region.USA].HighSDMult)
	}

	sc, err := d.SCurveConfig()
	if err != nil {
		t.Fatal(err)
	}
	india := sc[region.India]
	if india.BaseYear != 2014 || india.BaseAdoption != 5 || india.PDSTAM2050 != 100 ||
		india.Innovation != 0.01 || india.Imitation != 0.3 {
		t.Errorf("India S-curve: %+v", india)
	}

	s, err := d.Scenario()
	if err != nil {
		t.Fatal(err)
	}
	if s.RegionBasisFor(region.China) != solution.Custom || s.RegionBasisFor(region.EU) != solution.Prognostication {
		t.Errorf("region basis: %v", s.RegionBasis)
	}
	if s.Prognostication == nil || s.Custom == nil || s.SCurve == nil {
		t.Error("every adoption source should be set")
	}
}

func TestDefinitionIntegerValues(t *testing.T) {
	custom, err := filepath.Abs("testdata/custom_a.csv")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for name, def := range map[string]string{
		"solution.toml": "Basis = \"Logistic S-Curve\"\nFirstYear = 2014\nLastYear = 2020\n" +
			"[SCurve]\nTransitionPeriod = 4\n" +
			"[SCurve.Regions.World]\nbase_year = 2014\nlast_year = 2050\nbase_percent = 0.01\nlast_percent = 1\npds_tam_2050 = 100\n" +
			"[Custom]\nLowSDMult = 2\nHighSDMult = 3\n" +
			"[[Custom.Scenarios]]\nName = \"A\"\nPath = \"" + filepath.ToSlash(custom) + "\"\n",
		"solution.yaml": "Basis: Logistic S-Curve\nFirstYear: 2014\nLastYear: 2020\n" +
			"SCurve:\n  TransitionPeriod: 4\n  Regions:\n    World:\n      base_year: 2014\n      last_year: 2050\n" +
			"      base_percent: 0.01\n      last_percent: 1\n      pds_tam_2050: 100\n" +
			"Custom:\n  LowSDMult: 2\n  HighSDMult: 3\n  Scenarios:\n    - Name: A\n      Path: \"" + filepath.ToSlash(custom) + "\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			f := filepath.Join(dir, name)
			if err := os.WriteFile(f, []byte(def), 0o644); err != nil {
				t.Fatal(err)
			}
			d, err := ReadDefinition(f)
			if err != nil {
				t.Fatal(err)
			}
			s, err := d.Scenario()
			if err != nil {
				t.Fatal(err)
			}
			if s.SCurve.TransitionPeriod != 4 {
				t.Errorf("transition period: have %g, want 4", s.SCurve.TransitionPeriod)
			}
			if s.Custom.LowSDMult != 2 || s.Custom.HighSDMult != 3 {
				t.Errorf("multipliers: have %g and %g, want 2 and 3", s.Custom.LowSDMult, s.Custom.HighSDMult)
			}
			if c := s.SCurve.Config[region.World]; c.LastPercent != 1 || c.PDSTAM2050 != 100 {
				t.Errorf("S-curve: %+v", c)
			}
		})
	}
}

func TestDefinitionPathEnv(t *testing.T) {
	t.Setenv("DRAWDOWN_TEST_DIR", "/data")
	d := &Definition{dir: "defs"}
	if have := d.path("$DRAWDOWN_TEST_DIR/a.csv"); have != "/data/a.csv" {
		t.Errorf("have %s", have)
	}
	if have := d.path("a.csv"); have != filepath.Join("defs", "a.csv") {
		t.Errorf("have %s", have)
	}
}

func TestDefinitionErrors(t *testing.T) {
	for name, def := range map[string]string{
		"bad region basis":    "Basis = \"Logistic S-Curve\"\n[RegionBasis]\nAsia = \"Logistic S-Curve\"\n",
		"bad basis":           "Basis = \"Spreadsheet\"\n",
		"years reversed":      "Basis = \"Logistic S-Curve\"\nFirstYear = 2050\nLastYear = 2020\n",
		"unknown s-curve key": "Basis = \"Logistic S-Curve\"\n[SCurve.Regions.World]\nmidpoint = 2030\n",
		"bad multiplier":      "Basis = \"Logistic S-Curve\"\n[Custom]\nLowSDMult = \"lots\"\n[[Custom.Scenarios]]\nName = \"A\"\nPath = \"a.csv\"\n",
		"bad trend": "Basis = \"Existing Adoption Prognostications\"\n" +
			"[[DataSources]]\nName = \"A\"\nPath = \"source_a.csv\"\n[Trend.trend]\nWorld = \"4th Poly\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			f := filepath.Join(t.TempDir(), "solution.toml")
			if err := os.WriteFile(f, []byte(def), 0o644); err != nil {
				t.Fatal(err)
			}
			d, err := ReadDefinition(f)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := d.Scenario(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
