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
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ProjectDrawdown/solutions-sub003/table"
	"gonum.org/v1/gonum/floats/scalar"
)

func different(a, b, tolerance float64) bool {
	return !scalar.EqualWithinAbsOrRel(a, b, tolerance, tolerance)
}

func lmhTable(years []int, medium []float64) *table.Table {
	t := table.New(years, "Low", "Medium", "High")
	t.SetColumn("Medium", medium)
	return t
}

func TestFitRecoversPolynomials(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6}
	var tests = []struct {
		kind Kind
		coef []float64
	}{
		{kind: Linear, coef: []float64{2.5, -1}},
		{kind: Poly2, coef: []float64{0.5, -3, 10}},
		{kind: Poly3, coef: []float64{0.1, -0.5, 2, 7}},
		{kind: Exponential, coef: []float64{3, 1.2}},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			ys := make([]float64, len(xs))
			for i, x := range xs {
				ys[i] = Evaluate(test.kind, test.coef, x)
			}
			have, err := Fit(test.kind, xs, ys)
			if err != nil {
				t.Fatal(err)
			}
			if len(have) != len(test.coef) {
				t.Fatalf("have %d coefficients, want %d", len(have), len(test.coef))
			}
			for i := range have {
				if different(have[i], test.coef[i], 1e-8) {
					t.Errorf("coefficient %d: have %g, want %g", i, have[i], test.coef[i])
				}
			}
		})
	}
}

func TestFitConstant(t *testing.T) {
	const v = 42.5
	years := table.YearRange(2014, 2060)
	hist := []int{2012, 2013, 2014, 2015, 2016, 2017, 2018}
	medium := make([]float64, len(hist))
	for i := range medium {
		medium[i] = v
	}
	lmh := lmhTable(hist, medium)
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			tr, err := FitTrend(lmh, Medium, k, years)
			if err != nil {
				t.Fatal(err)
			}
			for i, a := range tr.Adoption {
				if a != v {
					t.Errorf("%d: have %g, want %g", years[i], a, v)
				}
			}
		})
	}
}

func TestFitTrendUnset(t *testing.T) {
	years := table.YearRange(2014, 2020)
	lmh := lmhTable([]int{2014, 2015}, []float64{1, 2})
	for _, test := range []struct {
		band Band
		kind Kind
	}{
		{NoBand, Linear},
		{Medium, NoTrend},
		{High, Linear}, // the High band has no data
	} {
		tr, err := FitTrend(lmh, test.band, test.kind, years)
		if err != nil {
			t.Fatal(err)
		}
		if len(tr.Adoption) != len(years) {
			t.Fatalf("have %d values", len(tr.Adoption))
		}
		for _, a := range tr.Adoption {
			if !math.IsNaN(a) {
				t.Errorf("%v/%v: have %g, want NaN", test.band, test.kind, a)
			}
		}
	}
}

func TestFitError(t *testing.T) {
	years := table.YearRange(2014, 2020)
	var tests = []struct {
		name   string
		kind   Kind
		years  []int
		medium []float64
	}{
		{"one point linear", Linear, []int{2014}, []float64{1}},
		{"three points cubic", Poly3, []int{2014, 2015, 2016}, []float64{1, 2, 4}},
		{"two points quadratic", Poly2, []int{2014, 2016}, []float64{1, 5}},
		{"zero exponential", Exponential, []int{2014, 2015, 2016}, []float64{0, 2, 4}},
		{"negative exponential", Exponential, []int{2014, 2015}, []float64{-1, 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := FitTrend(lmhTable(test.years, test.medium), Medium, test.kind, years)
			var fe *FitError
			if !errors.As(err, &fe) {
				t.Fatalf("have %v, want a FitError", err)
			}
			if fe.Kind != test.kind || fe.Points != len(test.years) {
				t.Errorf("have %+v", fe)
			}
		})
	}
}

func TestFitTrendComponents(t *testing.T) {
	years := table.YearRange(2014, 2018)
	lmh := lmhTable([]int{2014, 2015, 2016}, []float64{1, 3, 5})
	tr, err := FitTrend(lmh, Medium, Linear, years)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 3, 5, 7, 9}
	for i, y := range years {
		if different(tr.Adoption[i], want[i], 1e-10) {
			t.Errorf("%d: have %g, want %g", y, tr.Adoption[i], want[i])
		}
		sum := tr.Components.At(y, "x") + tr.Components.At(y, "constant")
		if different(sum, tr.Components.At(y, "adoption"), 1e-10) {
			t.Errorf("%d: components sum to %g, adoption is %g", y, sum, tr.Components.At(y, "adoption"))
		}
	}
}

// Source data that falls from a peak and then flattens out, fit with a
// cubic trend, must stay within a sane bound at the end of the model.
func TestPoly3ExtrapolationBound(t *testing.T) {
	hist := table.YearRange(2012, 2060)
	lmh := table.New(hist, "Low", "Medium", "High")
	medium := make([]float64, len(hist))
	var maxHist float64
	for i, y := range hist {
		a := 60 + 80*math.Exp(-float64(y-2012)/6)
		b := 55 + 90*math.Exp(-float64(y-2012)/8)
		medium[i] = (a + b) / 2
		maxHist = math.Max(maxHist, math.Max(a, b))
	}
	lmh.SetColumn("Medium", medium)

	years := table.YearRange(2014, 2060)
	tr, err := FitTrend(lmh, Medium, Poly3, years)
	if err != nil {
		t.Fatal(err)
	}
	last := tr.Adoption[len(years)-1]
	if math.IsNaN(last) || math.IsInf(last, 0) {
		t.Fatalf("non-finite forecast %g", last)
	}
	x := float64(years[len(years)-1] - years[0])
	if different(last, Evaluate(Poly3, tr.Coefficients, x), 1e-10) {
		t.Errorf("forecast %g is not the fitted polynomial", last)
	}
	if math.Abs(last) >= 10*maxHist {
		t.Errorf("forecast %g exceeds bound %g", last, 10*maxHist)
	}
}

func TestParseKind(t *testing.T) {
	for s, want := range map[string]Kind{
		"":            NoTrend,
		"Linear":      Linear,
		"2nd Poly":    Poly2,
		"Degree3":     Poly3,
		" exp ":       Exponential,
		"Exponential": Exponential,
	} {
		have, err := ParseKind(s)
		if err != nil {
			t.Fatal(err)
		}
		if have != want {
			t.Errorf("%q: have %v, want %v", s, have, want)
		}
	}
	if _, err := ParseKind("4th Poly"); err == nil {
		t.Error("expected an error")
	}
	if _, err := ParseBand("extreme"); err == nil {
		t.Error("expected an error")
	}
}

func ExampleFit() {
	coef, err := Fit(Linear, []float64{0, 1, 2}, []float64{1, 3, 5})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.3g\n", coef)
	// Output: [2 1]
}
