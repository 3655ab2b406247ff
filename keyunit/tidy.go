// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyunit normalizes keyuser column names and the units
// embedded in them.
package keyunit

import (
	"strings"
	"sync"
)

// aliases maps header spellings produced by different keyuser
// versions to the canonical column name.
var aliases = map[string]string{
	"Eliminations(%)":  "Eliminatons(%)",
	"Eliminations (%)": "Eliminatons(%)",
	"Eliminatons (%)":  "Eliminatons(%)",
	"Average Time (s)": "Execution Time (s)",
	"Elapsed Time (s)": "Elapsed Time (seconds)",
}

var tidyCache sync.Map // column string -> string

// TidyColumn normalizes a CSV column header. It trims surrounding
// whitespace, collapses runs of inner whitespace, and maps known
// aliases to their canonical spelling.
func TidyColumn(col string) string {
	// Fast path for headers that are already clean.
	if _, ok := aliases[col]; !ok && col == strings.TrimSpace(col) && !strings.Contains(col, "  ") {
		return col
	}

	if tc, ok := tidyCache.Load(col); ok {
		return tc.(string)
	}

	tidied := strings.Join(strings.Fields(col), " ")
	if a, ok := aliases[tidied]; ok {
		tidied = a
	}
	tidyCache.Store(col, tidied)
	return tidied
}

// Unit is the class of a measurement column.
type Unit int

const (
	// Count is a dimensionless count, such as "Collision Count".
	Count Unit = iota
	// Seconds is a time in seconds.
	Seconds
	// Percent is a percentage.
	Percent
)

// UnitOf returns the unit implied by the parenthesized suffix of col,
// such as "(s)" or "(%)".
func UnitOf(col string) Unit {
	i := strings.LastIndexByte(col, '(')
	if i < 0 || !strings.HasSuffix(col, ")") {
		return Count
	}
	switch col[i+1 : len(col)-1] {
	case "s", "sec", "seconds":
		return Seconds
	case "%":
		return Percent
	}
	return Count
}

// Millis converts v, measured in the unit of col, to milliseconds. It
// returns v unchanged if col is not a time column.
func Millis(v float64, col string) float64 {
	if UnitOf(col) == Seconds {
		return v * 1e3
	}
	return v
}

// FileSafe rewrites col into a form usable in an output file name by
// replacing spaces with underscores.
func FileSafe(col string) string {
	return strings.ReplaceAll(TidyColumn(col), " ", "_")
}
