// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keymath provides the statistics used to compare hash
// functions: chi-square uniformity and skewness of hash output
// distributions, Mann-Whitney U comparisons of benchmark samples, and
// geometric means.
package keymath

// Thresholds contains the significance thresholds used by tests.
type Thresholds struct {
	// Alpha is the significance level. A test whose p-value
	// exceeds Alpha does not reject its null hypothesis: the
	// samples are considered uniform, or considered to come from
	// the same distribution.
	Alpha float64
}

// DefaultThresholds contains a reasonable set of defaults for Thresholds.
var DefaultThresholds = Thresholds{
	Alpha: 0.05,
}
