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

package interpolation

import (
	"fmt"
	"strings"
)

// Kind is a type of trend curve.
type Kind int

// The trend kinds. NoTrend means that no forecast was requested.
const (
	NoTrend Kind = iota
	Linear
	Poly2
	Poly3
	Exponential
)

// Kinds lists every kind of trend that can be fit.
var Kinds = []Kind{Linear, Poly2, Poly3, Exponential}

func (k Kind) String() string {
	switch k {
	case NoTrend:
		return ""
	case Linear:
		return "Linear"
	case Poly2:
		return "2nd Poly"
	case Poly3:
		return "3rd Poly"
	case Exponential:
		return "Exponential"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// degree returns the polynomial degree of the fit; exponential trends are
// fit as a line in log space.
func (k Kind) degree() int {
	switch k {
	case Poly2:
		return 2
	case Poly3:
		return 3
	default:
		return 1
	}
}

var kindNames = map[string]Kind{
	"":            NoTrend,
	"none":        NoTrend,
	"linear":      Linear,
	"2nd poly":    Poly2,
	"degree2":     Poly2,
	"3rd poly":    Poly3,
	"degree3":     Poly3,
	"exponential": Exponential,
	"exp":         Exponential,
}

// ParseKind returns the trend kind with the given spreadsheet name, for
// example "3rd Poly". The empty string is NoTrend.
func ParseKind(s string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return NoTrend, fmt.Errorf("interpolation: invalid trend %q", s)
	}
	return k, nil
}

// Band selects which of the Low, Medium and High adoption estimates a
// trend is fit to.
type Band int

// The growth bands. NoBand means that no forecast was requested.
const (
	NoBand Band = iota
	Low
	Medium
	High
)

func (b Band) String() string {
	switch b {
	case NoBand:
		return ""
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// ParseBand returns the growth band with the given name. The empty string
// is NoBand.
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return NoBand, nil
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return NoBand, fmt.Errorf("interpolation: invalid growth %q", s)
}
