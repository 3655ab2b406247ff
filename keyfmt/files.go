// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

// Files reads records from a sequence of input files as if they were
// one table. All files must share the header of the first file.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// pos is the position of the next file to read from in Paths
	// when the current file is exhausted.
	pos int

	reader    Reader
	path      string
	file      *os.File
	header    *Header
	firstPath string
	err       error
}

// A SchemaError reports that an input file's header differs from the
// header of the first input.
type SchemaError struct {
	Path, FirstPath string
	Got, Want       *Header
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: columns [%s] do not match %s columns [%s]", e.Path, e.Got, e.FirstPath, e.Want)
}

// Scan advances to the next record in the sequence of files and
// returns true if a record was read. The caller should use the Record
// method to get it. If an I/O or schema error occurs, or this reaches
// the end of the file sequence, it returns false and the caller should
// use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if len(f.Paths) == 0 {
		f.err = errors.New("no input files")
		return false
	}

	for {
		if f.file == nil {
			if f.pos >= len(f.Paths) {
				// We're out of files.
				return false
			}
			path := f.Paths[f.pos]
			f.pos++
			file, err := os.Open(path)
			if err != nil {
				f.err = errors.Wrapf(err, "opening results file")
				return false
			}
			f.path, f.file = path, file
			f.reader.Reset(file, path)
		}

		ok := f.reader.Scan()
		if h := f.reader.Header(); h != nil && !f.checkHeader(h) {
			break
		}
		if ok {
			return true
		}
		if err := f.reader.Err(); err != nil {
			f.err = err
			break
		}
		// Just an EOF. Close this file and open the next.
		f.file.Close()
		f.file = nil
	}
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
	return false
}

func (f *Files) checkHeader(h *Header) bool {
	if f.header == nil {
		f.header, f.firstPath = h, f.path
		return true
	}
	if h == f.header || h.Equal(f.header) {
		return true
	}
	f.err = &SchemaError{Path: f.path, FirstPath: f.firstPath, Got: h, Want: f.header}
	return false
}

// Header returns the header shared by all files read so far.
func (f *Files) Header() *Header {
	return f.header
}

// Record returns the last record read, or an error if the record was
// malformed. Syntax errors are non-fatal.
//
// The caller should not retain the Record object, as it will be
// overwritten by the next call to Scan.
func (f *Files) Record() (*Record, error) {
	return f.reader.Record()
}

// Err returns the first non-EOF error that was encountered by the
// Files.
func (f *Files) Err() error {
	return f.err
}
