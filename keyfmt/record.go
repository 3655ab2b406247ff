// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyfmt reads and writes the CSV results produced by the
// keyuser hash benchmark and the distribution sample files produced by
// its --test-distribution mode.
package keyfmt

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Column names written by keyuser.
const (
	ColMode       = "Execution Mode"
	ColOperations = "Num Operations"
	ColKeys       = "Num Keys"
	ColInsertions = "Insertions (%)"
	ColSearches   = "Searches (%)"
	ColDeletions  = "Eliminatons(%)"
	ColHash       = "Hash Function"
	ColContainer  = "Hash Container"
	ColTime       = "Execution Time (s)"
	ColCollisions = "Collision Count"
	ColElapsed    = "Elapsed Time (seconds)"
)

// ConfigColumns are the categorical columns that, together with the
// hash function or container name, identify one benchmark
// configuration. Records that agree on all of them are repeated trials.
var ConfigColumns = []string{
	ColMode, ColOperations, ColKeys, ColInsertions, ColSearches, ColDeletions,
}

// A Header is the ordered list of column names of a CSV file.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader returns a Header for the given column names. Duplicate
// names resolve to their first occurrence.
func NewHeader(names ...string) *Header {
	h := &Header{names: append([]string(nil), names...), index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, ok := h.index[n]; !ok {
			h.index[n] = i
		}
	}
	return h
}

// Names returns the column names in file order.
func (h *Header) Names() []string {
	return h.names
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Index returns the position of column name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Has reports whether the header contains every named column.
func (h *Header) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := h.index[n]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether h and o have the same columns in the same
// order.
func (h *Header) Equal(o *Header) bool {
	if len(h.names) != len(o.names) {
		return false
	}
	for i, n := range h.names {
		if o.names[i] != n {
			return false
		}
	}
	return true
}

func (h *Header) String() string {
	return strings.Join(h.names, ", ")
}

// A Record is one row of a keyuser results file.
type Record struct {
	// Header describes the columns of Values.
	Header *Header

	// Values are the trimmed field values, one per column.
	Values []string

	// File and Line locate the record in its input, for
	// diagnostics.
	File string
	Line int
}

// Get returns the value of column col, or "" if the record has no
// such column.
func (r *Record) Get(col string) string {
	i, ok := r.Header.Index(col)
	if !ok || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// Set replaces the value of column col. It reports whether the column
// exists.
func (r *Record) Set(col, val string) bool {
	i, ok := r.Header.Index(col)
	if !ok || i >= len(r.Values) {
		return false
	}
	r.Values[i] = val
	return true
}

// Float parses the value of column col as a float64.
func (r *Record) Float(col string) (float64, error) {
	i, ok := r.Header.Index(col)
	if !ok {
		return 0, errors.Newf("%s:%d: no column %q", r.File, r.Line, col)
	}
	v, err := strconv.ParseFloat(r.Values[i], 64)
	if err != nil {
		return 0, &SyntaxError{r.File, r.Line, "parsing " + col + ": " + err.(*strconv.NumError).Err.Error()}
	}
	return v, nil
}
