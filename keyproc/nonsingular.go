// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

// NonSingularFields returns the subset of Schema fields for which at
// least two of configs have different values.
func NonSingularFields(configs []Config) []Field {
	if len(configs) <= 1 {
		// There can't be any differences.
		return nil
	}
	var out []Field
	for _, f := range commonSchema(configs).fields {
		base := configs[0].Get(f)
		for _, c := range configs[1:] {
			if c.Get(f) != base {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// SingularFields returns the subset of Schema fields for which all of
// configs have the same value. It is the complement of
// NonSingularFields. It returns nil if configs is empty.
func SingularFields(configs []Config) []Field {
	if len(configs) == 0 {
		return nil
	}
	varies := make(map[int]bool)
	for _, f := range NonSingularFields(configs) {
		varies[f.idx] = true
	}
	var out []Field
	for _, f := range commonSchema(configs).fields {
		if !varies[f.idx] {
			out = append(out, f)
		}
	}
	return out
}
