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
	"runtime"
	"sync"

	"github.com/ProjectDrawdown/solutions-sub003/datasource"
	"github.com/ProjectDrawdown/solutions-sub003/interpolation"
	"github.com/ProjectDrawdown/solutions-sub003/internal/hash"
	"github.com/ProjectDrawdown/solutions-sub003/region"
	"github.com/ProjectDrawdown/solutions-sub003/table"
	"github.com/ctessum/requestcache"
)

// computation is a memoizable request. Its key is a hash of its contents,
// so it must hold every input its result depends on, and computing it must
// not make further requests to the cache.
type computation interface {
	compute() (interface{}, error)
}

func process(ctx context.Context, req interface{}) (interface{}, error) {
	return req.(computation).compute()
}

// NewCache returns a cache for model results holding at most maxEntries
// results. If maxEntries is zero the cache is unbounded. Failed
// computations are not cached.
func NewCache(maxEntries int) *requestcache.Cache {
	return requestcache.NewCache(process, runtime.GOMAXPROCS(-1), requestcache.Memory(maxEntries))
}

var (
	defaultCache     *requestcache.Cache
	defaultCacheOnce sync.Once
)

// DefaultCache returns the unbounded cache shared by every model that is
// not given its own cache with WithCache.
func DefaultCache() *requestcache.Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache(0)
	})
	return defaultCache
}

func request(ctx context.Context, c *requestcache.Cache, op string, req computation) (interface{}, error) {
	return c.NewRequest(ctx, req, hash.Hash(op, req)).Result()
}

type minMaxSDRequest struct {
	Region   region.Region
	Data     *table.Table
	Selector string
	Groups   datasource.Groups
	Mode     Mode
}

func (r *minMaxSDRequest) compute() (interface{}, error) {
	return MinMaxSD(r.Data, r.Selector, r.Groups, r.Mode), nil
}

type lowMedHighRequest struct {
	Region   region.Region
	Data     *table.Table
	MinMaxSD *table.Table
	Config   TrendConfig
	Selector string
	Groups   datasource.Groups
	Mode     Mode
}

func (r *lowMedHighRequest) compute() (interface{}, error) {
	return LowMedHigh(r.Data, r.MinMaxSD, r.Config, r.Selector, r.Groups, r.Mode), nil
}

type trendRequest struct {
	Region     region.Region
	LowMedHigh *table.Table
	Growth     interpolation.Band
	Kind       interpolation.Kind
	Years      []int
}

func (r *trendRequest) compute() (interface{}, error) {
	t, err := interpolation.FitTrend(r.LowMedHigh, r.Growth, r.Kind, r.Years)
	if err != nil {
		return nil, fmt.Errorf("adoptiondata: %s: %w", r.Region, err)
	}
	t.Name = fmt.Sprintf("%s: %s", r.Region, r.Kind)
	return t, nil
}
