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


package popstat

import (
	"math"
	"testing"
)

func TestMeanStdDev(t *testing.T) {
	var tests = []struct {
		vals      []float64
		mean, std float64
	}{
		{vals: []float64{0.1, 0.1, 0.1}, mean: 0.1, std: 0},
		{vals: []float64{7}, mean: 7, std: 0},
		{vals: []float64{10, 20}, mean: 15, std: 5},
		{vals: []float64{2, 4, 4, 4, 5, 5, 7, 9}, mean: 5, std: 2},
	}
	for _, test := range tests {
		mean, std := MeanStdDev(test.vals)
		if math.Abs(mean-test.mean) > 1e-12 || math.Abs(std-test.std) > 1e-12 {
			t.Errorf("%v: have (%g, %g), want (%g, %g)", test.vals, mean, std, test.mean, test.std)
		}
	}
	if mean, std := MeanStdDev([]float64{0.1, 0.1, 0.1}); mean != 0.1 || std != 0 {
		t.Errorf("identical values: have (%g, %g), want exactly (0.1, 0)", mean, std)
	}
}
