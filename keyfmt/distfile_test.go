// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDistributionsYAML(t *testing.T) {
	data := `
distributions:
  array_STDHashSrc: [3, 1, 4, 1, 5]
  array_AbseilHash: [9, 2, 6]
  Plain:
    - 1.5
    - 2.5
`
	d, err := ParseDistributions([]byte(data), "dir/regex_distribution.yaml")
	require.NoError(t, err)
	assert.Equal(t, "regex_distribution", d.Label)

	var names, keys []string
	for _, s := range d.Sets {
		names = append(names, s.Name)
		keys = append(keys, s.Key)
	}
	// File order, not map order.
	assert.Equal(t, []string{"STDHashSrc", "AbseilHash", "Plain"}, names)
	assert.Equal(t, []string{"array_STDHashSrc", "array_AbseilHash", "Plain"}, keys)
	assert.Equal(t, []float64{1.5, 2.5}, d.Sets[2].Values)

	s, ok := d.Lookup("STDHashSrc")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 1, 4, 1, 5}, s.Values)
	_, ok = d.Lookup("array_AbseilHash")
	assert.True(t, ok)
	_, ok = d.Lookup("Murmur")
	assert.False(t, ok)
}

func TestParseDistributionsJSON(t *testing.T) {
	data := `{"distributions": {"array_Z": [1, 2], "array_A": [3]}}`
	d, err := ParseDistributions([]byte(data), "x.json")
	require.NoError(t, err)
	require.Len(t, d.Sets, 2)
	assert.Equal(t, "Z", d.Sets[0].Name)
	assert.Equal(t, "A", d.Sets[1].Name)
}

func TestParseDistributionsErrors(t *testing.T) {
	check := func(data, want string) {
		t.Helper()
		_, err := ParseDistributions([]byte(data), "bad.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), want)
		assert.Contains(t, err.Error(), "bad.yaml")
	}

	check("", "empty distribution file")
	check("- 1\n- 2\n", "expected a mapping")
	check("other: {}\n", `no "distributions" mapping`)
	check("distributions: [1, 2]\n", "must be a mapping")
	check("distributions:\n  array_X: [1, two]\n", `sample set "array_X"`)
}

func TestReadDistributionsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := ReadDistributions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
