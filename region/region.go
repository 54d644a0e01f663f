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

// Package region holds the fixed set of geographic regions that every
// Drawdown adoption table is reported for.
package region

import (
	"fmt"
	"strings"
)

// Region is one of the ten regions used throughout the model.
// The zero value is World.
type Region int

// The regions, in the order they appear in every regional table.
const (
	World Region = iota
	OECD90
	EasternEurope
	AsiaSansJapan
	MiddleEastAndAfrica
	LatinAmerica
	China
	India
	EU
	USA
)

// Count is the number of regions.
const Count = 10

var names = [Count]string{
	"World",
	"OECD90",
	"Eastern Europe",
	"Asia (Sans Japan)",
	"Middle East and Africa",
	"Latin America",
	"China",
	"India",
	"EU",
	"USA",
}

// String returns the canonical name of the region, which is also the
// column label used in input and output files.
func (r Region) String() string {
	if r < 0 || int(r) >= Count {
		panic(fmt.Errorf("region: invalid region %d", int(r)))
	}
	return names[r]
}

// Valid returns whether r is one of the defined regions.
func (r Region) Valid() bool { return r >= 0 && int(r) < Count }

// Parse returns the region with the given name. Matching ignores case and
// surrounding whitespace but is otherwise exact.
func Parse(name string) (Region, error) {
	n := strings.TrimSpace(name)
	for i, v := range names {
		if strings.EqualFold(n, v) {
			return Region(i), nil
		}
	}
	return 0, fmt.Errorf("region: unknown region %q", name)
}

// All returns every region in canonical order.
func All() []Region {
	o := make([]Region, Count)
	for i := range o {
		o[i] = Region(i)
	}
	return o
}

// Main returns the five main regions whose sum makes up the World total
// when a solution's World data includes regional data.
func Main() []Region {
	return []Region{OECD90, EasternEurope, AsiaSansJapan, MiddleEastAndAfrica, LatinAmerica}
}

// Names returns the canonical names of all regions in order.
func Names() []string {
	o := make([]string, Count)
	copy(o, names[:])
	return o
}
