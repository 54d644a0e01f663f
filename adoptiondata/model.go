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

package adoptiondata

import (
	"context"
	"fmt"
	"math"

	"github.com/ProjectDrawdown/solutions-sub003/datasource"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
)

// RegionalSumCol is the name of the source column holding the sum of the
// main regions' trends when World data includes regional data.
const RegionalSumCol = "Regional Sum"

// DefaultYears are the model years used when a Config does not specify any.
var DefaultYears = table.YearRange(2014, 2060)

// Config holds the adoption data settings of a solution scenario.
type Config struct {
	// Years are the model years trends are evaluated for.
	// If empty, DefaultYears is used.
	Years []int

	// Trends holds the trend settings for each region. Regions without
	// settings get no trend.
	Trends map[region.Region]TrendConfig

	// Source selects the sources used for the statistics. It can be a
	// source name, a group name such as "Ambitious Cases", or
	// datasource.AllSources, which is used if it is empty.
	Source string

	// RegionSources overrides Source for individual regions.
	RegionSources map[region.Region]string

	// WorldIncludesRegional specifies that the sum of the main regions'
	// trends is added to the World sources.
	WorldIncludesRegional bool

	Mode Mode
}

// Model computes the existing prognostication adoption for a solution.
// Results are memoized, so tables returned by a Model are shared and must
// not be modified.
type Model struct {
	cfg    Config
	groups datasource.Groups
	data   map[region.Region]*table.Table
	cache  *requestcache.Cache

	Log logrus.FieldLogger
}

// Option configures a Model.
type Option func(*Model)

// WithCache specifies the cache results are memoized in. By default every
// model shares the process-wide DefaultCache.
func WithCache(c *requestcache.Cache) Option {
	return func(m *Model) { m.cache = c }
}

// WithLogger specifies the logger for the model.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Model) { m.Log = l }
}

// New loads the source data in groups and returns a model for it.
func New(cfg Config, groups datasource.Groups, opts ...Option) (*Model, error) {
	data, err := datasource.LoadRegional(groups)
	if err != nil {
		return nil, err
	}
	return NewFromData(cfg, groups, data, opts...)
}

// NewFromData returns a model for data that has already been loaded, with
// one table per region and one column per source. Regions missing from
// data have no sources.
func NewFromData(cfg Config, groups datasource.Groups, data map[region.Region]*table.Table, opts ...Option) (*Model, error) {
	if len(cfg.Years) == 0 {
		cfg.Years = DefaultYears
	}
	for i := 1; i < len(cfg.Years); i++ {
		if cfg.Years[i] <= cfg.Years[i-1] {
			return nil, fmt.Errorf("adoptiondata: model years must be increasing")
		}
	}
	m := &Model{
		cfg:    cfg,
		groups: groups,
		data:   make(map[region.Region]*table.Table, region.Count),
		Log:    logrus.StandardLogger(),
	}
	for _, r := range region.All() {
		if t, ok := data[r]; ok && t != nil {
			m.data[r] = t
		} else {
			m.data[r] = table.New(nil)
		}
	}
	for _, o := range opts {
		o(m)
	}
	if m.cache == nil {
		m.cache = DefaultCache()
	}
	return m, nil
}

// Years returns the model years.
func (m *Model) Years() []int { return append([]int(nil), m.cfg.Years...) }

// Groups returns the source groups of the model.
func (m *Model) Groups() datasource.Groups { return m.groups }

func (m *Model) source(r region.Region) string {
	if s, ok := m.cfg.RegionSources[r]; ok && s != "" {
		return s
	}
	if m.cfg.Source != "" {
		return m.cfg.Source
	}
	return datasource.AllSources
}

// IsSingleSource returns whether the World source selector names a single
// source rather than a group of sources.
func (m *Model) IsSingleSource() bool {
	return !datasource.IsGroupName(m.groups, m.source(region.World))
}

// Data returns the source data for region r. When World includes regional
// data, the World table has an additional RegionalSumCol source.
func (m *Model) Data(ctx context.Context, r region.Region) (*table.Table, error) {
	if r != region.World || !m.cfg.WorldIncludesRegional {
		return m.data[r], nil
	}
	trends := make(map[region.Region]*interpolation.Trend)
	for _, mr := range region.Main() {
		t, err := m.SelectedTrend(ctx, mr)
		if err != nil {
			return nil, err
		}
		trends[mr] = t
	}
	return m.withRegionalSum(trends), nil
}

// withRegionalSum returns a copy of the World data with the sum of the
// main regions' trend adoption added as a source, aligned on the World
// years. Years where any main region is NaN, or that are outside the model
// years, are NaN.
func (m *Model) withRegionalSum(trends map[region.Region]*interpolation.Trend) *table.Table {
	world := m.data[region.World].Clone()
	sum := table.NaNs(world.Len())
	idx := make(map[int]int, len(m.cfg.Years))
	for i, y := range m.cfg.Years {
		idx[y] = i
	}
	for i, y := range world.Years {
		j, ok := idx[y]
		if !ok {
			continue
		}
		var s float64
		for _, mr := range region.Main() {
			s += trends[mr].Adoption[j]
		}
		if !math.IsNaN(s) {
			sum[i] = s
		}
	}
	world.SetColumn(RegionalSumCol, sum)
	return world
}

// MinMaxSD returns the minimum, maximum and standard deviation of the
// sources for region r.
func (m *Model) MinMaxSD(ctx context.Context, r region.Region) (*table.Table, error) {
	data, err := m.Data(ctx, r)
	if err != nil {
		return nil, err
	}
	return m.minMaxSD(ctx, r, data)
}

func (m *Model) minMaxSD(ctx context.Context, r region.Region, data *table.Table) (*table.Table, error) {
	res, err := request(ctx, m.cache, "minmaxsd", &minMaxSDRequest{
		Region:   r,
		Data:     data,
		Selector: m.source(r),
		Groups:   m.groups,
		Mode:     m.cfg.Mode,
	})
	if err != nil {
		return nil, err
	}
	return res.(*table.Table), nil
}

// LowMedHigh returns the Low, Medium and High adoption estimates for
// region r.
func (m *Model) LowMedHigh(ctx context.Context, r region.Region) (*table.Table, error) {
	data, err := m.Data(ctx, r)
	if err != nil {
		return nil, err
	}
	return m.lowMedHigh(ctx, r, data)
}

func (m *Model) lowMedHigh(ctx context.Context, r region.Region, data *table.Table) (*table.Table, error) {
	mms, err := m.minMaxSD(ctx, r, data)
	if err != nil {
		return nil, err
	}
	res, err := request(ctx, m.cache, "lowmedhigh", &lowMedHighRequest{
		Region:   r,
		Data:     data,
		MinMaxSD: mms,
		Config:   m.cfg.Trends[r],
		Selector: m.source(r),
		Groups:   m.groups,
		Mode:     m.cfg.Mode,
	})
	if err != nil {
		return nil, err
	}
	return res.(*table.Table), nil
}

// Trend returns the trend of the given kind fit to the configured growth
// band for region r. Repeated calls with the same inputs return the same
// *Trend.
func (m *Model) Trend(ctx context.Context, r region.Region, kind interpolation.Kind) (*interpolation.Trend, error) {
	data, err := m.Data(ctx, r)
	if err != nil {
		return nil, err
	}
	return m.trend(ctx, r, kind, data)
}

func (m *Model) trend(ctx context.Context, r region.Region, kind interpolation.Kind, data *table.Table) (*interpolation.Trend, error) {
	lmh, err := m.lowMedHigh(ctx, r, data)
	if err != nil {
		return nil, err
	}
	cfg := m.cfg.Trends[r]
	res, err := request(ctx, m.cache, "trend", &trendRequest{
		Region:     r,
		LowMedHigh: lmh,
		Growth:     cfg.Growth,
		Kind:       kind,
		Years:      m.cfg.Years,
	})
	if err != nil {
		return nil, err
	}
	m.Log.WithFields(logrus.Fields{
		"region": r.String(),
		"trend":  kind.String(),
		"growth": cfg.Growth.String(),
	}).Debug("adoptiondata fit trend")
	return res.(*interpolation.Trend), nil
}

// SelectedTrend returns the trend of the configured kind for region r.
func (m *Model) SelectedTrend(ctx context.Context, r region.Region) (*interpolation.Trend, error) {
	return m.Trend(ctx, r, m.cfg.Trends[r].Trend)
}

// TrendPerRegion returns the selected trend adoption for every region,
// with one column per region.
func (m *Model) TrendPerRegion(ctx context.Context) (*table.Table, error) {
	return m.TrendsFor(ctx, region.All())
}

// TrendsFor returns the selected trend adoption for the given regions, with
// one column per region in canonical order. Columns for other regions are
// NaN, and their trends are not fit, so a region that cannot be fit does
// not affect the others. The regions other than World are computed first;
// when World includes regional data, the main regions are fit as well and
// the World trend is then fit using their results.
func (m *Model) TrendsFor(ctx context.Context, regions []region.Region) (*table.Table, error) {
	want := make(map[region.Region]bool, len(regions))
	for _, r := range regions {
		want[r] = true
	}
	fit := make(map[region.Region]bool, region.Count)
	for r := range want {
		fit[r] = true
	}
	spliced := want[region.World] && m.cfg.WorldIncludesRegional
	if spliced {
		for _, r := range region.Main() {
			fit[r] = true
		}
	}

	o := table.New(m.cfg.Years, region.Names()...)
	trends := make(map[region.Region]*interpolation.Trend)
	for _, r := range region.All()[1:] {
		if !fit[r] {
			continue
		}
		t, err := m.SelectedTrend(ctx, r)
		if err != nil {
			return nil, err
		}
		trends[r] = t
		if want[r] {
			o.SetColumn(r.String(), t.Adoption)
		}
	}
	if !want[region.World] {
		return o, nil
	}

	world := m.data[region.World]
	if spliced {
		world = m.withRegionalSum(trends)
	}
	t, err := m.trend(ctx, region.World, m.cfg.Trends[region.World].Trend, world)
	if err != nil {
		return nil, err
	}
	o.SetColumn(region.World.String(), t.Adoption)
	return o, nil
}
