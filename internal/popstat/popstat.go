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


// Package popstat holds the population statistics shared by the adoption
// calculations.
package popstat

import "gonum.org/v1/gonum/stat"

// MeanStdDev returns the mean and population standard deviation of vals,
// which must not be empty. Identical values give exactly their value and
// zero.
func MeanStdDev(vals []float64) (mean, std float64) {
	same := true
	for _, v := range vals[1:] {
		if v != vals[0] {
			same = false
			break
		}
	}
	if same {
		return vals[0], 0
	}
	return stat.PopMeanStdDev(vals, nil)
}
