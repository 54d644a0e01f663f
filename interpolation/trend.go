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

// Package interpolation fits the trend curves that extend historical
// adoption estimates over the model horizon.
package interpolation

import (
	"fmt"
	"math"

	"github.com/ProjectDrawdown/solutions-sub003/table"
	"gonum.org/v1/gonum/mat"
)

// FitError is returned when a trend cannot be fit, for example because
// there are fewer data points than the trend has coefficients.
type FitError struct {
	Kind   Kind
	Points int
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("interpolation: fitting %s trend to %d points: %s", e.Kind, e.Points, e.Reason)
}

// Trend is a fitted trend evaluated over the model years.
type Trend struct {
	// Name identifies the trend, typically "<region>: <kind>".
	Name string

	Kind Kind

	// Years are the model years the trend was evaluated at, and Adoption
	// holds the trend value for each year.
	Years    []int
	Adoption []float64

	// Coefficients are the fitted coefficients. For polynomial trends they
	// are ordered from the highest power to the constant. For exponential
	// trends they are the coefficient and the annual growth ratio.
	Coefficients []float64

	// Components holds the terms that sum (or, for exponential trends,
	// multiply) to the adoption, with an "adoption" column, in the layout
	// of the spreadsheet trend tables.
	Components *table.Table
}

// Series returns the adoption as a single-column table named after the
// trend.
func (t *Trend) Series() *table.Table {
	o := table.New(t.Years)
	o.SetColumn(t.Name, t.Adoption)
	return o
}

// FitTrend fits a trend of the given kind to the non-missing values of the
// band column ("Low", "Medium" or "High") of lmh, and evaluates it for
// every year in years. x is measured in years since years[0].
//
// If band or kind is unset, or the band has no data, the result is NaN for
// every year.
func FitTrend(lmh *table.Table, band Band, kind Kind, years []int) (*Trend, error) {
	t := &Trend{
		Name:     kind.String(),
		Kind:     kind,
		Years:    append([]int(nil), years...),
		Adoption: table.NaNs(len(years)),
	}
	if band == NoBand || kind == NoTrend || len(years) == 0 {
		t.Components = table.New(years, "adoption")
		return t, nil
	}
	col, ok := lmh.Column(band.String())
	if !ok {
		return nil, fmt.Errorf("interpolation: table has no %q column", band)
	}
	var xs, ys []float64
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(lmh.Years[i]-years[0]))
		ys = append(ys, v)
	}
	if len(xs) == 0 {
		t.Components = table.New(years, componentNames(kind)...)
		return t, nil
	}
	coef, err := Fit(kind, xs, ys)
	if err != nil {
		return nil, err
	}
	t.Coefficients = coef
	t.Components = components(kind, coef, years)
	t.Adoption, _ = t.Components.Column("adoption")
	return t, nil
}

func componentNames(kind Kind) []string {
	switch kind {
	case Linear:
		return []string{"x", "constant", "adoption"}
	case Poly2:
		return []string{"x^2", "x", "constant", "adoption"}
	case Poly3:
		return []string{"x^3", "x^2", "x", "constant", "adoption"}
	case Exponential:
		return []string{"coeff", "e^x", "adoption"}
	}
	return []string{"adoption"}
}

func components(kind Kind, coef []float64, years []int) *table.Table {
	names := componentNames(kind)
	o := table.New(years, names...)
	for _, y := range years {
		x := float64(y - years[0])
		if kind == Exponential {
			ex := math.Pow(coef[1], x)
			o.Set(y, "coeff", coef[0])
			o.Set(y, "e^x", ex)
			o.Set(y, "adoption", coef[0]*ex)
			continue
		}
		deg := len(coef) - 1
		var sum float64
		for i, c := range coef {
			term := c * math.Pow(x, float64(deg-i))
			o.Set(y, names[i], term)
			sum += term
		}
		o.Set(y, "adoption", sum)
	}
	return o
}

// Evaluate returns the value of a trend with the given coefficients at x.
func Evaluate(kind Kind, coef []float64, x float64) float64 {
	if kind == Exponential {
		return coef[0] * math.Pow(coef[1], x)
	}
	var sum float64
	deg := len(coef) - 1
	for i, c := range coef {
		sum += c * math.Pow(x, float64(deg-i))
	}
	return sum
}

// Fit returns the least-squares coefficients of a trend of the given kind
// through the points (xs, ys). Polynomial coefficients are ordered from the
// highest power down; exponential trends return the coefficient and the
// growth ratio of y = coeff·ratio^x, found by fitting ln(y) with a line.
func Fit(kind Kind, xs, ys []float64) ([]float64, error) {
	if kind == NoTrend {
		return nil, &FitError{Kind: kind, Points: len(xs), Reason: "no trend kind specified"}
	}
	if len(xs) != len(ys) {
		panic(fmt.Errorf("interpolation: %d x values but %d y values", len(xs), len(ys)))
	}
	deg := kind.degree()
	if len(xs) < deg+1 {
		return nil, &FitError{Kind: kind, Points: len(xs),
			Reason: fmt.Sprintf("at least %d points are required", deg+1)}
	}
	if distinct(xs) < deg+1 {
		return nil, &FitError{Kind: kind, Points: len(xs),
			Reason: fmt.Sprintf("at least %d distinct years are required", deg+1)}
	}

	if kind == Exponential {
		for _, y := range ys {
			if !(y > 0) {
				return nil, &FitError{Kind: kind, Points: len(xs),
					Reason: fmt.Sprintf("non-positive value %g has no logarithm", y)}
			}
		}
		if constant(ys) {
			return []float64{ys[0], 1}, nil
		}
		logs := make([]float64, len(ys))
		for i, y := range ys {
			logs[i] = math.Log(y)
		}
		c, err := polyfit(xs, logs, 1)
		if err != nil {
			return nil, &FitError{Kind: kind, Points: len(xs), Reason: err.Error()}
		}
		return []float64{math.Exp(c[1]), math.Exp(c[0])}, nil
	}

	if constant(ys) {
		// Constant data is fit exactly.
		c := make([]float64, deg+1)
		c[deg] = ys[0]
		return c, nil
	}
	c, err := polyfit(xs, ys, deg)
	if err != nil {
		return nil, &FitError{Kind: kind, Points: len(xs), Reason: err.Error()}
	}
	return c, nil
}

// polyfit solves the least-squares problem for a polynomial of the given
// degree using the Vandermonde matrix of xs.
func polyfit(xs, ys []float64, degree int) ([]float64, error) {
	n := len(xs)
	a := mat.NewDense(n, degree+1, nil)
	for i, x := range xs {
		for j := 0; j <= degree; j++ {
			a.Set(i, j, math.Pow(x, float64(degree-j)))
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), ys...))

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, err
	}
	o := make([]float64, degree+1)
	for i := range o {
		o[i] = c.AtVec(i)
		if math.IsNaN(o[i]) || math.IsInf(o[i], 0) {
			return nil, fmt.Errorf("non-finite coefficient")
		}
	}
	return o, nil
}

func distinct(xs []float64) int {
	m := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return len(m)
}

func constant(ys []float64) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}
