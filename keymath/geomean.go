// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keymath

import "github.com/aclements/go-moremath/stats"

// Mean returns the arithmetic mean of xs, or NaN if xs is empty.
func Mean(xs []float64) float64 {
	return stats.Mean(xs)
}

// GeoMean returns the geometric mean of xs. It returns NaN if xs is
// empty or contains a value <= 0.
func GeoMean(xs []float64) float64 {
	return stats.GeoMean(xs)
}

// GeoMeanNonZero returns the product of the non-zero values of xs
// raised to 1/len(xs). Zeros count toward the number of values but not
// the product, so a sample of all zeros yields 1.
func GeoMeanNonZero(xs []float64) float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		if x == 0 {
			x = 1
		}
		ys[i] = x
	}
	return stats.GeoMean(ys)
}
