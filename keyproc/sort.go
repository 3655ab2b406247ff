// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// less reports whether the values a come before b, field by field.
func less(fields []Field, a, b []string) bool {
	for _, f := range fields {
		x, y := a[f.idx], b[f.idx]
		if x == y {
			continue
		}
		if c := f.cmp(x, y); c != 0 {
			return c < 0
		}
		// "1" and "1.0" compare equal but are distinct Configs.
		return x < y
	}
	return false
}

// SortConfigs sorts configs field by field in schema order. All
// configs must have the same Schema.
func SortConfigs(configs []Config) {
	if len(configs) == 0 {
		return
	}
	fields := commonSchema(configs).fields
	sort.SliceStable(configs, func(i, j int) bool {
		return less(fields, configs[i].c.vals, configs[j].c.vals)
	})
}

// SortNames sorts names the way a single-column Config would be
// sorted.
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		if c := compareValues(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

// compareValues orders keyuser field values. Numbers, including
// percentages such as "50%", sort numerically with NaN last and come
// before any other string. Other strings sort alphabetically.
func compareValues(a, b string) int {
	aa, erra := parseNum(a)
	bb, errb := parseNum(b)
	switch {
	case erra == nil && errb == nil:
		switch {
		case aa < bb, !math.IsNaN(aa) && math.IsNaN(bb):
			return -1
		case aa > bb, math.IsNaN(aa) && !math.IsNaN(bb):
			return 1
		}
		// Equal or both NaN.
		return 0
	case erra == nil:
		return -1
	case errb == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// parseNum parses a numeric field value, allowing a trailing percent
// sign.
func parseNum(x string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(x, "%"), 64)
}
