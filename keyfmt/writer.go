// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"encoding/csv"
	"io"
)

// A Writer writes records in keyuser CSV format.
type Writer struct {
	w      *csv.Writer
	header *Header
}

// NewWriter returns a writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write writes rec to w. The first call writes rec's header. If a
// later record has a different header, the header is written again
// before it, so that every block of rows is self-describing.
func (w *Writer) Write(rec *Record) error {
	if w.header == nil || (rec.Header != w.header && !rec.Header.Equal(w.header)) {
		if err := w.w.Write(rec.Header.Names()); err != nil {
			return err
		}
		w.header = rec.Header
	}
	return w.w.Write(rec.Values)
}

// Flush writes any buffered data to the underlying io.Writer and
// reports any error that occurred during a Write or Flush.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
