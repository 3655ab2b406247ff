// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import "strings"

// A Filter selects which raw hash function or container names take
// part in an analysis. Filtering happens before normalization and
// aggregation.
type Filter struct {
	// Exclude drops any name containing one of these substrings.
	Exclude []string

	// Only, if non-empty, keeps only names that are listed here
	// either as raw names or as canonical labels.
	Only []string

	// Labels maps raw names to canonical labels for Only. If nil,
	// only raw names are matched.
	Labels *Normalizer
}

// Apply reports whether raw passes the filter.
func (f *Filter) Apply(raw string) bool {
	if f == nil {
		return true
	}
	for _, sub := range f.Exclude {
		if sub != "" && strings.Contains(raw, sub) {
			return false
		}
	}
	if len(f.Only) == 0 {
		return true
	}
	label := f.Labels.Label(raw)
	for _, name := range f.Only {
		if name == raw || name == label {
			return true
		}
	}
	return false
}
