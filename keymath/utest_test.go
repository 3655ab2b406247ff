// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keymath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	th := DefaultThresholds

	low := Group{"low", []float64{1, 2, 3, 4, 5}}
	high := Group{"high", []float64{10, 11, 12, 13, 14}}
	c := Compare(low, high)
	assert.Equal(t, "low", c.A)
	assert.Equal(t, "high", c.B)
	assert.Equal(t, 5, c.N1)
	assert.Equal(t, 5, c.N2)
	assert.Equal(t, 0.0, c.U)
	assert.InDelta(t, 2.0/252, c.P, 1e-9)
	assert.False(t, c.Same(&th))

	// Identical constant samples cannot be told apart.
	c = Compare(Group{"a", []float64{3, 3, 3}}, Group{"b", []float64{3, 3}})
	assert.Equal(t, 1.0, c.P)
	assert.True(t, c.Same(&th))
	assert.Empty(t, c.Warnings)

	c = Compare(Group{"a", nil}, high)
	assert.True(t, math.IsNaN(c.P))
	assert.False(t, c.Same(&th))
	assert.Len(t, c.Warnings, 1)
}

func TestPairwise(t *testing.T) {
	groups := []Group{
		{"A", []float64{1, 2, 3, 4, 5}},
		{"B", []float64{1.5, 2.5, 3.5, 4.5, 5.5}},
		{"C", []float64{10, 11, 12, 13, 14}},
	}
	cmps := Pairwise(groups)
	require.Len(t, cmps, 6)

	var order [][2]string
	for _, c := range cmps {
		order = append(order, [2]string{c.A, c.B})
	}
	assert.Equal(t, [][2]string{
		{"A", "B"}, {"A", "C"},
		{"B", "A"}, {"B", "C"},
		{"C", "A"}, {"C", "B"},
	}, order)

	find := func(a, b string) Comparison {
		for _, c := range cmps {
			if c.A == a && c.B == b {
				return c
			}
		}
		t.Fatalf("no comparison of %s and %s", a, b)
		return Comparison{}
	}
	for _, c := range cmps {
		rev := find(c.B, c.A)
		assert.Equal(t, c.P, rev.P, "p(%s,%s) != p(%s,%s)", c.A, c.B, c.B, c.A)
		assert.Equal(t, float64(c.N1*c.N2), c.U+rev.U)
		assert.GreaterOrEqual(t, c.P, 0.0)
		assert.LessOrEqual(t, c.P, 1.0)
	}

	assert.Nil(t, Pairwise(groups[:1]))
	assert.Nil(t, Pairwise(nil))
}

func TestGeoMean(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2), GeoMean([]float64{1, 2}), 1e-12)
	assert.InDelta(t, 4, GeoMean([]float64{2, 8}), 1e-12)
	assert.True(t, math.IsNaN(GeoMean(nil)))
	assert.True(t, math.IsNaN(GeoMean([]float64{0, 1})))

	// Zeros count toward n but not the product.
	assert.InDelta(t, 2, GeoMeanNonZero([]float64{4, 0}), 1e-12)
	assert.InDelta(t, 1, GeoMeanNonZero([]float64{0, 0, 0}), 1e-12)
	assert.InDelta(t, 3, GeoMeanNonZero([]float64{3}), 1e-12)

	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}
