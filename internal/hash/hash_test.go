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

package hash

import (
	"math"
	"testing"
)

type request struct {
	Name   string
	Values []float64
	Index  map[string]int
	next   *request
}

func TestHash(t *testing.T) {
	a := request{
		Name:   "World",
		Values: []float64{1, math.NaN(), 3},
		Index:  map[string]int{"a": 1, "b": 2, "c": 3, "d": 4},
		next:   &request{Name: "child"},
	}
	b := request{
		Name:   "World",
		Values: []float64{1, math.NaN(), 3},
		Index:  map[string]int{"d": 4, "c": 3, "b": 2, "a": 1},
		next:   &request{Name: "child"},
	}
	if Hash(a) != Hash(b) {
		t.Error("equal contents should give equal keys")
	}
	if Hash(&a) != Hash(&b) {
		t.Error("pointer addresses should not affect the key")
	}

	b.next.Name = "other"
	if Hash(a) == Hash(b) {
		t.Error("unexported nested fields should affect the key")
	}
	if Hash("a", "bc") == Hash("ab", "c") {
		t.Error("argument boundaries should affect the key")
	}
	if Hash(1, 2) == Hash(2, 1) {
		t.Error("argument order should affect the key")
	}
}
