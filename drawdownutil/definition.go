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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ProjectDrawdown/solutions-sub003/adoptiondata"
	"github.com/ProjectDrawdown/solutions-sub003/customadoption"
	"github.com/ProjectDrawdown/solutions-sub003/datasource"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/scurve"
	"github.com/ProjectDrawdown/solutions-sub003/solution"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Definition holds the definition of a solution scenario, as read from a
// TOML or YAML file.
type Definition struct {
	// Name is the name of the scenario.
	Name string `toml:"Name" yaml:"Name"`

	// Basis is the default adoption basis, for example
	// "Existing Adoption Prognostications" or "Logistic S-Curve".
	Basis string `toml:"Basis" yaml:"Basis"`

	// RegionBasis overrides Basis for individual regions.
	RegionBasis map[string]string `toml:"RegionBasis" yaml:"RegionBasis"`

	// FirstYear and LastYear are the range of model years. They default
	// to 2014 and 2060.
	FirstYear int `toml:"FirstYear" yaml:"FirstYear"`
	LastYear  int `toml:"LastYear" yaml:"LastYear"`

	// PrognosticationSource selects the data sources used for the
	// adoption statistics: a source name, a group name, or "ALL SOURCES".
	PrognosticationSource string `toml:"PrognosticationSource" yaml:"PrognosticationSource"`

	// RegionSources overrides PrognosticationSource for individual regions.
	RegionSources map[string]string `toml:"RegionSources" yaml:"RegionSources"`

	// WorldIncludesRegional specifies that the sum of the main regions is
	// included as a World data source.
	WorldIncludesRegional bool `toml:"WorldIncludesRegional" yaml:"WorldIncludesRegional"`

	// StatisticsMode is "excel" (the default) or "strict".
	StatisticsMode string `toml:"StatisticsMode" yaml:"StatisticsMode"`

	// DataSources are the existing adoption prognostications. Paths can
	// include environment variables and are relative to the definition
	// file.
	DataSources []SourceDefinition `toml:"DataSources" yaml:"DataSources"`

	// Trend holds the trend settings, indexed by parameter ("trend",
	// "growth", "low_sd_mult" or "high_sd_mult") and then by region.
	Trend map[string]map[string]interface{} `toml:"Trend" yaml:"Trend"`

	SCurve SCurveDefinition `toml:"SCurve" yaml:"SCurve"`

	Custom CustomDefinition `toml:"Custom" yaml:"Custom"`

	dir string
}

// SourceDefinition specifies one data source.
type SourceDefinition struct {
	// Group is the name of the group the source belongs to, for example
	// "Ambitious Cases". It can be empty.
	Group string `toml:"Group" yaml:"Group"`
	Name  string `toml:"Name" yaml:"Name"`
	Path  string `toml:"Path" yaml:"Path"`
}

// SCurveDefinition holds the S-curve settings.
type SCurveDefinition struct {
	// TransitionPeriod can be written as an integer or a float.
	TransitionPeriod interface{} `toml:"TransitionPeriod" yaml:"TransitionPeriod"`

	// Regions holds the S-curve parameters for each region, indexed by
	// region and then by parameter: base_year, last_year, base_percent,
	// last_percent, base_adoption, pds_tam_2050, innovation and imitation.
	Regions map[string]map[string]interface{} `toml:"Regions" yaml:"Regions"`
}

// CustomDefinition holds the custom adoption settings.
type CustomDefinition struct {
	// Selection is the name of the scenario to use, or "Average of All
	// Custom Scenarios", "High of All Custom Scenarios" or "Low of All
	// Custom Scenarios".
	Selection string `toml:"Selection" yaml:"Selection"`

	// LowSDMult and HighSDMult default to 1.
	LowSDMult  interface{} `toml:"LowSDMult" yaml:"LowSDMult"`
	HighSDMult interface{} `toml:"HighSDMult" yaml:"HighSDMult"`

	// Limit is the path to a file holding the total addressable market
	// for each region and year.
	Limit string `toml:"Limit" yaml:"Limit"`

	Scenarios []CustomScenarioDefinition `toml:"Scenarios" yaml:"Scenarios"`
}

// CustomScenarioDefinition specifies one custom adoption scenario.
type CustomScenarioDefinition struct {
	Name        string `toml:"Name" yaml:"Name"`
	Description string `toml:"Description" yaml:"Description"`
	Path        string `toml:"Path" yaml:"Path"`

	// Include defaults to true.
	Include *bool `toml:"Include" yaml:"Include"`
}

// ReadDefinition reads a solution definition from a TOML file or, if the
// file name ends in .yaml or .yml, a YAML file.
func ReadDefinition(filename string) (*Definition, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("drawdownutil: reading solution definition: %v", err)
	}
	d := new(Definition)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, d)
	default:
		_, err = toml.Decode(string(b), d)
	}
	if err != nil {
		return nil, fmt.Errorf("drawdownutil: parsing solution definition %s: %v", filename, err)
	}
	d.dir = filepath.Dir(filename)
	return d, nil
}

// path expands the environment variables in p and makes it relative to
// the definition file.
func (d *Definition) path(p string) string {
	p = os.ExpandEnv(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.dir, p)
}

// Years returns the model years.
func (d *Definition) Years() ([]int, error) {
	first, last := d.FirstYear, d.LastYear
	if first == 0 {
		first = 2014
	}
	if last == 0 {
		last = 2060
	}
	if last < first {
		return nil, fmt.Errorf("drawdownutil: LastYear %d is before FirstYear %d", last, first)
	}
	return table.YearRange(first, last), nil
}

// regionMap converts a map indexed by region name into one indexed by
// region.
func regionMap[T any](m map[string]T, name string) (map[region.Region]T, error) {
	o := make(map[region.Region]T, len(m))
	for k, v := range m {
		r, err := region.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("drawdownutil: %s: %v", name, err)
		}
		o[r] = v
	}
	return o, nil
}

// Groups returns the data source groups.
func (d *Definition) Groups() datasource.Groups {
	var g datasource.Groups
	for _, s := range d.DataSources {
		g = g.Add(s.Group, s.Name, d.path(s.Path))
	}
	return g
}

// TrendConfig returns the trend settings for each region.
func (d *Definition) TrendConfig() (map[region.Region]adoptiondata.TrendConfig, error) {
	o := make(map[region.Region]adoptiondata.TrendConfig)
	// Iterate in a fixed order so errors are reproducible.
	params := make([]string, 0, len(d.Trend))
	for p := range d.Trend {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		vals, err := regionMap(d.Trend[p], "Trend."+p)
		if err != nil {
			return nil, err
		}
		for r, v := range vals {
			c, ok := o[r]
			if !ok {
				c = adoptiondata.TrendConfig{LowSDMult: 1, HighSDMult: 1}
			}
			if err := setTrendParam(&c, p, v); err != nil {
				return nil, fmt.Errorf("drawdownutil: Trend.%s.%s: %v", p, r, err)
			}
			o[r] = c
		}
	}
	return o, nil
}

func setTrendParam(c *adoptiondata.TrendConfig, param string, v interface{}) error {
	var err error
	switch strings.ToLower(param) {
	case "trend":
		var s string
		if s, err = cast.ToStringE(v); err == nil {
			c.Trend, err = interpolation.ParseKind(s)
		}
	case "growth":
		var s string
		if s, err = cast.ToStringE(v); err == nil {
			c.Growth, err = interpolation.ParseBand(s)
		}
	case "low_sd_mult":
		c.LowSDMult, err = cast.ToFloat64E(v)
	case "high_sd_mult":
		c.HighSDMult, err = cast.ToFloat64E(v)
	default:
		err = fmt.Errorf("unknown parameter")
	}
	return err
}

// SCurveConfig returns the S-curve settings for each region.
func (d *Definition) SCurveConfig() (map[region.Region]scurve.Config, error) {
	regions, err := regionMap(d.SCurve.Regions, "SCurve.Regions")
	if err != nil {
		return nil, err
	}
	o := make(map[region.Region]scurve.Config, len(regions))
	for r, params := range regions {
		var c scurve.Config
		for k, v := range params {
			var err error
			switch strings.ToLower(k) {
			case "base_year":
				c.BaseYear, err = cast.ToIntE(v)
			case "last_year":
				c.LastYear, err = cast.ToIntE(v)
			case "base_percent":
				c.BasePercent, err = cast.ToFloat64E(v)
			case "last_percent":
				c.LastPercent, err = cast.ToFloat64E(v)
			case "base_adoption":
				c.BaseAdoption, err = cast.ToFloat64E(v)
			case "pds_tam_2050":
				c.PDSTAM2050, err = cast.ToFloat64E(v)
			case "innovation":
				c.Innovation, err = cast.ToFloat64E(v)
			case "imitation":
				c.Imitation, err = cast.ToFloat64E(v)
			default:
				err = fmt.Errorf("unknown parameter")
			}
			if err != nil {
				return nil, fmt.Errorf("drawdownutil: SCurve.Regions.%s.%s: %v", r, k, err)
			}
		}
		o[r] = c
	}
	return o, nil
}

// Model returns the existing prognostication model, or nil if there are
// no data sources.
func (d *Definition) Model(opts ...adoptiondata.Option) (*adoptiondata.Model, error) {
	if len(d.DataSources) == 0 {
		return nil, nil
	}
	years, err := d.Years()
	if err != nil {
		return nil, err
	}
	trends, err := d.TrendConfig()
	if err != nil {
		return nil, err
	}
	sources, err := regionMap(d.RegionSources, "RegionSources")
	if err != nil {
		return nil, err
	}
	mode, err := adoptiondata.ParseMode(d.StatisticsMode)
	if err != nil {
		return nil, err
	}
	return adoptiondata.New(adoptiondata.Config{
		Years:                 years,
		Trends:                trends,
		Source:                d.PrognosticationSource,
		RegionSources:         sources,
		WorldIncludesRegional: d.WorldIncludesRegional,
		Mode:                  mode,
	}, d.Groups(), opts...)
}

// CustomAdoption returns the custom adoption scenarios, or nil if there
// are none.
func (d *Definition) CustomAdoption() (*customadoption.CustomAdoption, error) {
	if len(d.Custom.Scenarios) == 0 {
		return nil, nil
	}
	years, err := d.Years()
	if err != nil {
		return nil, err
	}
	ca := customadoption.New(years)
	if d.Custom.Selection != "" {
		ca.Selection = d.Custom.Selection
	}
	if d.Custom.LowSDMult != nil {
		if ca.LowSDMult, err = cast.ToFloat64E(d.Custom.LowSDMult); err != nil {
			return nil, fmt.Errorf("drawdownutil: Custom.LowSDMult: %v", err)
		}
	}
	if d.Custom.HighSDMult != nil {
		if ca.HighSDMult, err = cast.ToFloat64E(d.Custom.HighSDMult); err != nil {
			return nil, fmt.Errorf("drawdownutil: Custom.HighSDMult: %v", err)
		}
	}
	if d.Custom.Limit != "" {
		if ca.Limit, err = datasource.ReadRegionalFile(d.path(d.Custom.Limit)); err != nil {
			return nil, err
		}
	}
	for _, s := range d.Custom.Scenarios {
		data, err := datasource.ReadRegionalFile(d.path(s.Path))
		if err != nil {
			return nil, err
		}
		include := true
		if s.Include != nil {
			include = *s.Include
		}
		if err := ca.AddScenario(customadoption.Scenario{
			Name:        s.Name,
			Description: s.Description,
			Data:        data,
			Include:     include,
		}); err != nil {
			return nil, err
		}
	}
	return ca, nil
}

// Scenario returns the solution scenario the definition describes.
func (d *Definition) Scenario(opts ...adoptiondata.Option) (*solution.Scenario, error) {
	years, err := d.Years()
	if err != nil {
		return nil, err
	}
	s := &solution.Scenario{Name: d.Name, Years: years}
	if s.Basis, err = solution.ParseBasis(d.Basis); err != nil {
		return nil, err
	}
	s.RegionBasis = make(map[region.Region]solution.Basis)
	for k, v := range d.RegionBasis {
		r, err := region.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("drawdownutil: RegionBasis: %v", err)
		}
		if s.RegionBasis[r], err = solution.ParseBasis(v); err != nil {
			return nil, err
		}
	}
	if s.Prognostication, err = d.Model(opts...); err != nil {
		return nil, err
	}
	if s.Custom, err = d.CustomAdoption(); err != nil {
		return nil, err
	}
	if len(d.SCurve.Regions) > 0 {
		cfg, err := d.SCurveConfig()
		if err != nil {
			return nil, err
		}
		var period float64
		if d.SCurve.TransitionPeriod != nil {
			if period, err = cast.ToFloat64E(d.SCurve.TransitionPeriod); err != nil {
				return nil, fmt.Errorf("drawdownutil: SCurve.TransitionPeriod: %v", err)
			}
		}
		s.SCurve = &scurve.SCurve{Years: years, TransitionPeriod: period, Config: cfg}
	}
	return s, nil
}
