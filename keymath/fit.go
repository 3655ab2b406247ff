// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keymath

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// A SkewClass is a coarse description of a sample's skewness.
type SkewClass int

const (
	Symmetric SkewClass = iota
	ModeratelySkewed
	HighlySkewed
)

func (c SkewClass) String() string {
	switch c {
	case HighlySkewed:
		return "Highly skewed"
	case ModeratelySkewed:
		return "Moderately skewed"
	}
	return "Approximately symmetric"
}

// ClassifySkew classifies a skewness value. NaN is treated as
// symmetric.
func ClassifySkew(skew float64) SkewClass {
	a := math.Abs(skew)
	switch {
	case a > 1.0:
		return HighlySkewed
	case a > 0.5:
		return ModeratelySkewed
	}
	return Symmetric
}

// A Fit is the result of testing one sample set against a uniform
// distribution.
type Fit struct {
	// Name is the name of the sample set.
	Name string

	// N is the sample size and Bins the number of distinct
	// values, which is also the number of histogram bins.
	N, Bins int

	// Skewness is the sample skewness.
	Skewness float64

	// ChiSquare is the chi-square statistic and P its p-value.
	ChiSquare, P float64

	// Fallback indicates the test could not be computed and
	// ChiSquare holds the worst case for N samples.
	Fallback bool

	// Warnings is a list of warnings about this fit.
	Warnings []error
}

// Uniform reports whether the fit does not reject uniformity.
func (f *Fit) Uniform(t *Thresholds) bool {
	return f.P > t.Alpha
}

// SkewClass classifies f.Skewness.
func (f *Fit) SkewClass() SkewClass {
	return ClassifySkew(f.Skewness)
}

// WorstCaseChiSquare returns the chi-square statistic of n samples
// concentrated in a single value.
func WorstCaseChiSquare(n int) float64 {
	m := float64(n - 1)
	return m*m + m
}

var errDegenerate = errors.New("fewer than 2 distinct values; using worst-case chi-square")

// GoodnessOfFit tests xs against a uniform distribution.
//
// The observed frequencies are a histogram of xs with one equal-width
// bin per distinct value over [min, max]; each expected frequency is
// len(xs) divided by the number of bins. If the chi-square test is not
// defined for xs, the result has Fallback set, ChiSquare set to
// WorstCaseChiSquare(len(xs)) and P set to 0.
func GoodnessOfFit(name string, xs []float64) *Fit {
	f := &Fit{
		Name:     name,
		N:        len(xs),
		Bins:     Distinct(xs),
		Skewness: Skewness(xs),
	}

	if f.Bins < 2 {
		f.fallback(errDegenerate)
		return f
	}

	obs := Histogram(xs, f.Bins)
	exp := make([]float64, f.Bins)
	for i := range exp {
		exp[i] = float64(f.N) / float64(f.Bins)
	}
	chi := stat.ChiSquare(obs, exp)
	p := distuv.ChiSquared{K: float64(f.Bins - 1)}.Survival(chi)
	if math.IsNaN(chi) || math.IsInf(chi, 0) || math.IsNaN(p) {
		f.fallback(errors.New("chi-square test is undefined; using worst-case chi-square"))
		return f
	}
	f.ChiSquare, f.P = chi, p
	return f
}

func (f *Fit) fallback(why error) {
	f.Fallback = true
	f.ChiSquare = WorstCaseChiSquare(f.N)
	f.P = 0
	f.Warnings = append(f.Warnings, why)
}

// Distinct returns the number of distinct values in xs.
func Distinct(xs []float64) int {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1] {
			n++
		}
	}
	return n
}

// Histogram counts xs into bins equal-width bins spanning [min, max].
// The last bin is closed. If all values are equal the range is
// widened by 0.5 on each side.
func Histogram(xs []float64, bins int) []float64 {
	counts := make([]float64, bins)
	if len(xs) == 0 || bins <= 0 {
		return counts
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= bins {
			i = bins - 1
		} else if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return counts
}

// Skewness returns the population (biased) skewness of xs, the third
// central moment divided by the second central moment to the 3/2
// power. It returns NaN if xs has fewer than one value or no
// variance.
func Skewness(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, xs, nil)
	if m2 == 0 {
		return math.NaN()
	}
	m3 := stat.Moment(3, xs, nil)
	return m3 / math.Pow(m2, 1.5)
}
