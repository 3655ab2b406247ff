// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/keyunit"
)

// A Reader reads a keyuser CSV results file.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Record it returns; a caller must copy anything it needs to
// retain across calls to Scan.
type Reader struct {
	cr       *csv.Reader
	fileName string
	lineNum  int
	header   *Header
	err      error // current I/O error

	record    Record
	recordErr error
}

// A SyntaxError represents a malformed row of a results file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noRecord = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse keyuser CSV from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. The
// header is read again from the new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.cr = csv.NewReader(ior)
	r.cr.FieldsPerRecord = -1
	r.cr.TrimLeadingSpace = true
	r.cr.ReuseRecord = true
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.header = nil
	r.err = nil
	r.recordErr = noRecord
	r.record = Record{File: fileName}
}

// Header returns the header of the current input. It is nil until
// the first call to Scan.
func (r *Reader) Header() *Header {
	return r.header
}

func (r *Reader) readHeader() bool {
	row, err := r.cr.Read()
	if err == io.EOF {
		r.err = errors.Newf("%s: empty file, expected a header row", r.fileName)
		return false
	}
	if err != nil {
		r.err = errors.Wrapf(err, "%s: reading header", r.fileName)
		return false
	}
	names := make([]string, len(row))
	for i, n := range row {
		names[i] = keyunit.TidyColumn(n)
	}
	r.header = NewHeader(names...)
	r.record.Header = r.header
	return true
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.header == nil && !r.readHeader() {
		return false
	}

	row, err := r.cr.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// Malformed quoting is confined to this row.
			r.lineNum = perr.Line
			r.recordErr = &SyntaxError{r.fileName, perr.Line, perr.Err.Error()}
			return true
		}
		r.err = errors.Wrapf(err, "%s:%d", r.fileName, r.lineNum)
		return false
	}
	r.lineNum, _ = r.cr.FieldPos(0)
	if len(row) != r.header.Len() {
		r.recordErr = &SyntaxError{r.fileName, r.lineNum,
			fmt.Sprintf("expected %d fields, got %d", r.header.Len(), len(row))}
		return true
	}

	r.record.Values = r.record.Values[:0]
	for _, v := range row {
		r.record.Values = append(r.record.Values, strings.TrimSpace(v))
	}
	r.record.Line = r.lineNum
	r.recordErr = nil
	return true
}

// Record returns the last record read, or an error if the record was
// malformed.
//
// Syntax errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Record object, as it will be
// overwritten by the next call to Scan.
func (r *Reader) Record() (*Record, error) {
	if r.recordErr != nil {
		return nil, r.recordErr
	}
	return &r.record, nil
}

// Err returns the first non-EOF error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
