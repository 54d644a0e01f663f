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

// Package datasource describes the named adoption data sources of a
// solution, how they are grouped, and how they are read from disk.
package datasource

import "strings"

// AllSources is the selector that matches every data source.
const AllSources = "ALL SOURCES"

const allSourcesKey = "all sources"

// Source is a single named data source.
type Source struct {
	// Name is the provenance name of the source, for example
	// "Based on: AMPERE (2014) IMAGE 450". It is used as the column label
	// for the source's data.
	Name string

	// Path is the location of the CSV file holding the source's
	// regional data.
	Path string
}

// Group is a named collection of sources, for example "Ambitious Cases".
type Group struct {
	Name    string
	Sources []Source

	// Leaf is true for a group that was created for a single source
	// declared without a group. Leaf groups are not group names for the
	// purpose of source selection.
	Leaf bool
}

// Groups holds all of the data sources of a solution, in declaration order.
type Groups []Group

// Add returns g with a source added to the named group, creating the group
// if necessary. If group is empty, the source becomes its own leaf group.
func (g Groups) Add(group, name, path string) Groups {
	s := Source{Name: name, Path: path}
	if group == "" {
		return append(g, Group{Name: name, Sources: []Source{s}, Leaf: true})
	}
	for i := range g {
		if !g[i].Leaf && g[i].Name == group {
			g[i].Sources = append(g[i].Sources, s)
			return g
		}
	}
	return append(g, Group{Name: group, Sources: []Source{s}})
}

// Sources returns every source in declaration order.
func (g Groups) Sources() []Source {
	var o []Source
	for _, grp := range g {
		o = append(o, grp.Sources...)
	}
	return o
}

// SourceNames returns the names of every source in declaration order.
func (g Groups) SourceNames() []string {
	var o []string
	for _, s := range g.Sources() {
		o = append(o, s.Name)
	}
	return o
}

// groupAliases folds the spellings of the standard case groups used in
// the spreadsheets to one key per group.
var groupAliases = map[string]string{
	"baseline":           "baseline",
	"baseline case":      "baseline",
	"baseline cases":     "baseline",
	"conservative":       "conservative",
	"conservative case":  "conservative",
	"conservative cases": "conservative",
	"ambitious":          "ambitious",
	"ambitious case":     "ambitious",
	"ambitious cases":    "ambitious",
	"100%":               "100%",
	"100% case":          "100%",
	"100% cases":         "100%",
	"100% ren":           "100%",
	"all source":         allSourcesKey,
	"all sources":        allSourcesKey,
}

// standardGroups are group keys that are recognized even when a solution
// declares no source in them.
var standardGroups = map[string]bool{
	"baseline":     true,
	"conservative": true,
	"ambitious":    true,
	"100%":         true,
}

// Canonical returns the lower-case key for a source or group name, with
// whitespace collapsed and group aliases folded.
func Canonical(name string) string {
	n := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if a, ok := groupAliases[n]; ok {
		return a
	}
	return n
}

// groupCandidates returns the source names belonging to the group with
// the given canonical key, and whether key names a group at all.
func (g Groups) groupCandidates(key string) ([]string, bool) {
	var o []string
	found := standardGroups[key]
	for _, grp := range g {
		if grp.Leaf || Canonical(grp.Name) != key {
			continue
		}
		found = true
		for _, s := range grp.Sources {
			o = append(o, s.Name)
		}
	}
	return o, found
}

// IsGroupName returns whether name refers to a group of sources (including
// "ALL SOURCES") rather than to an individual source.
func IsGroupName(groups Groups, name string) bool {
	key := Canonical(name)
	if key == allSourcesKey {
		return true
	}
	_, ok := groups.groupCandidates(key)
	return ok
}

// MatchingColumns returns the members of columns selected by name, in
// their original order:
//
//   - a group name selects every column whose lower-cased label contains
//     the name of any source in that group, which tolerates prefixes such
//     as "Baseline: Based on-";
//   - "ALL SOURCES" selects every column;
//   - when groupsOnly is true, any other name selects every column, since
//     no group can be isolated;
//   - otherwise name itself is matched by case-insensitive containment.
//
// The result is empty, not nil, if nothing matches.
func MatchingColumns(groups Groups, columns []string, name string, groupsOnly bool) []string {
	key := Canonical(name)
	var candidates []string
	if c, ok := groups.groupCandidates(key); ok {
		candidates = c
	} else if key == allSourcesKey || groupsOnly {
		return append([]string{}, columns...)
	} else {
		candidates = []string{name}
	}
	for i, c := range candidates {
		candidates[i] = strings.ToLower(strings.TrimSpace(c))
	}

	o := []string{}
	for _, col := range columns {
		lc := strings.ToLower(col)
		for _, c := range candidates {
			if c != "" && strings.Contains(lc, c) {
				o = append(o, col)
				break
			}
		}
	}
	return o
}
