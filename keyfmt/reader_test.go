// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Execution Mode, Num Operations, Num Keys, Insertions (%), Searches (%), Eliminatons(%), Hash Function, Execution Time (s), Collision Count\n"

// parseAll reads every record of data, rendering malformed rows as
// "error: msg" so they can be compared inline.
func parseAll(t *testing.T, data string) []string {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	var out []string
	for r.Scan() {
		rec, err := r.Record()
		if err != nil {
			out = append(out, "error: "+err.Error())
			continue
		}
		out = append(out, strings.Join(rec.Values, "|"))
	}
	require.NoError(t, r.Err())
	return out
}

func TestReader(t *testing.T) {
	type testCase struct {
		name, input string
		want        []string
	}
	for _, test := range []testCase{
		{
			"basic",
			header +
				"Batched, 1000, 100, 50, 30, 20, STDHashSrc, 0.5, 3\n" +
				"Interweaved, 1000, 100, 50, 30, 20, AbseilHash, 0.25, 0\n",
			[]string{
				"Batched|1000|100|50|30|20|STDHashSrc|0.5|3",
				"Interweaved|1000|100|50|30|20|AbseilHash|0.25|0",
			},
		},
		{
			"trailing spaces and blank lines",
			header +
				"\n" +
				"Batched ,1000 ,100,50,30,20,  Pext  ,0.5,3\n",
			[]string{
				"Batched|1000|100|50|30|20|Pext|0.5|3",
			},
		},
		{
			"bad lines",
			header +
				"Batched, 1000, 100\n" +
				"Batched, 1000, 100, 50, 30, 20, Gpt, 0.5, 3\n",
			[]string{
				"error: test:2: expected 9 fields, got 3",
				"Batched|1000|100|50|30|20|Gpt|0.5|3",
			},
		},
		{
			"header only",
			header,
			nil,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, parseAll(t, test.input))
		})
	}
}

func TestReaderHeader(t *testing.T) {
	r := NewReader(strings.NewReader(header+"Batched, 1, 2, 3, 4, 5, X, 0.1, 0\n"), "test")
	assert.Nil(t, r.Header())
	require.True(t, r.Scan())
	h := r.Header()
	require.NotNil(t, h)
	assert.True(t, h.Has(ConfigColumns...))
	assert.True(t, h.Has(ColHash, ColTime, ColCollisions))
	assert.False(t, h.Has(ColContainer))

	rec, err := r.Record()
	require.NoError(t, err)
	assert.Equal(t, "X", rec.Get(ColHash))
	assert.Equal(t, "", rec.Get(ColContainer))
	v, err := rec.Float(ColTime)
	require.NoError(t, err)
	assert.Equal(t, 0.1, v)
	assert.Equal(t, 2, rec.Line)

	_, err = rec.Float(ColHash)
	var serr *SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestReaderEmpty(t *testing.T) {
	r := NewReader(strings.NewReader(""), "empty.csv")
	assert.False(t, r.Scan())
	assert.ErrorContains(t, r.Err(), "empty.csv")
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
	return path
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", header+"Batched, 1, 100, 50, 30, 20, A, 1.0, 0\n")
	b := writeFile(t, dir, "b.csv", header+"Batched, 1, 200, 50, 30, 20, A, 2.0, 0\nBatched, 1, 200, 50, 30, 20, B, 4.0, 1\n")

	f := Files{Paths: []string{a, b}}
	var names, files []string
	for f.Scan() {
		rec, err := f.Record()
		require.NoError(t, err)
		names = append(names, rec.Get(ColHash)+"@"+rec.Get(ColKeys))
		files = append(files, filepath.Base(rec.File))
	}
	require.NoError(t, f.Err())
	assert.Equal(t, []string{"A@100", "A@200", "B@200"}, names)
	assert.Equal(t, []string{"a.csv", "b.csv", "b.csv"}, files)
	assert.True(t, f.Header().Has(ColHash))
}

func TestFilesSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", header+"Batched, 1, 100, 50, 30, 20, A, 1.0, 0\n")
	b := writeFile(t, dir, "b.csv", "Hash Function, Execution Time (s)\nA, 1.0\n")

	f := Files{Paths: []string{a, b}}
	n := 0
	for f.Scan() {
		n++
	}
	assert.Equal(t, 1, n)
	var serr *SchemaError
	require.True(t, errors.As(f.Err(), &serr), "got %v", f.Err())
	assert.Equal(t, b, serr.Path)
	assert.Equal(t, a, serr.FirstPath)
}

func TestFilesMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	f := Files{Paths: []string{missing}}
	assert.False(t, f.Scan())
	require.Error(t, f.Err())
	assert.Contains(t, f.Err().Error(), missing)
	assert.True(t, errors.Is(f.Err(), os.ErrNotExist))
}

func TestFilesNone(t *testing.T) {
	var f Files
	assert.False(t, f.Scan())
	assert.Error(t, f.Err())
}

func TestWriter(t *testing.T) {
	in := header + "Batched,1,100,50,30,20,A,1,0\nBatched,1,100,50,30,20,B,2,5\n"
	r := NewReader(strings.NewReader(in), "in")
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for r.Scan() {
		rec, err := r.Record()
		require.NoError(t, err)
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Flush())

	want := strings.ReplaceAll(header, ", ", ",") + "Batched,1,100,50,30,20,A,1,0\nBatched,1,100,50,30,20,B,2,5\n"
	assert.Equal(t, want, buf.String())
}
