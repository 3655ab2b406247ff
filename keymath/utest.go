// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keymath

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/cockroachdb/errors"
)

// A Group is a named sample, such as every execution time observed
// for one hash function.
type Group struct {
	Name   string
	Values []float64
}

// A Comparison is the result of a two-sided Mann-Whitney U test
// between two groups.
type Comparison struct {
	// A and B are the names of the compared groups.
	A, B string

	// N1 and N2 are the sizes of A and B.
	N1, N2 int

	// U is the U statistic of A and P is the p-value.
	U, P float64

	// Warnings is a list of warnings about this comparison.
	Warnings []error
}

// Same reports whether the comparison does not reject the hypothesis
// that both groups come from the same distribution.
func (c *Comparison) Same(t *Thresholds) bool {
	return c.P > t.Alpha
}

// Compare performs a two-sided Mann-Whitney U test of a against b.
//
// If all values in both groups are equal, P is 1. If either group is
// empty, P is NaN and the comparison carries a warning.
func Compare(a, b Group) Comparison {
	c := Comparison{A: a.Name, B: b.Name, N1: len(a.Values), N2: len(b.Values)}
	res, err := stats.MannWhitneyUTest(a.Values, b.Values, stats.LocationDiffers)
	switch {
	case err == nil:
		c.U, c.P = res.U, res.P
	case errors.Is(err, stats.ErrSamplesEqual):
		c.U = float64(c.N1*c.N2) / 2
		c.P = 1
	default:
		c.U, c.P = math.NaN(), math.NaN()
		c.Warnings = append(c.Warnings, errors.Wrapf(err, "comparing %s and %s", a.Name, b.Name))
	}
	return c
}

// swap returns c as the comparison of B against A.
func (c Comparison) swap() Comparison {
	return Comparison{
		A: c.B, B: c.A,
		N1: c.N2, N2: c.N1,
		U:        float64(c.N1*c.N2) - c.U,
		P:        c.P,
		Warnings: c.Warnings,
	}
}

// Pairwise compares every ordered pair of distinct groups. The result
// is ordered by the first group, then by the second, following the
// order of groups. Each unordered pair is tested once, so the
// comparison of (A, B) and of (B, A) always agree on P.
func Pairwise(groups []Group) []Comparison {
	if len(groups) < 2 {
		return nil
	}
	// Tests of i against j for i < j.
	tests := make(map[[2]int]Comparison)
	out := make([]Comparison, 0, len(groups)*(len(groups)-1))
	for i := range groups {
		for j := range groups {
			if i == j {
				continue
			}
			if i < j {
				c := Compare(groups[i], groups[j])
				tests[[2]int{i, j}] = c
				out = append(out, c)
			} else {
				out = append(out, tests[[2]int{j, i}].swap())
			}
		}
	}
	return out
}
