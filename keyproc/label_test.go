// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLabels(t *testing.T) {
	n, err := NewNormalizer(DefaultRules)
	require.NoError(t, err)

	check := func(raw, want string) {
		t.Helper()
		assert.Equal(t, want, n.Label(raw), "Label(%q)", raw)
	}

	check("AbseilHash_v2_simd", "Abseil")
	check("AbseilHash", "Abseil")
	check("FNVHashSrc", "FNV")
	check("CityHashIPV4", "City")
	check("PextUrlComplex", "Pext")
	check("OffXorSsn", "OffXor")
	check("NaiveMac", "Naive")
	check("GperfIntsHash", "Gperf")
	check("GptUrl", "Gpt")
	check("STDHashSrc", "STL")
	check("AesCpf", "Aes")
	check("SomeUnknownHash", "SomeUnknownHash")
	// Patterns match at the start only.
	check("MyAbseilHash", "MyAbseilHash")
	check("", "")
}

func TestLabelOrder(t *testing.T) {
	n, err := NewNormalizer([]Rule{
		{Pattern: "^Pext", Label: "first"},
		{Pattern: "PextUrl", Label: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", n.Label("PextUrl"))
}

func TestNilNormalizer(t *testing.T) {
	var n *Normalizer
	assert.Equal(t, "AbseilHash", n.Label("AbseilHash"))
}

func TestNormalizerErrors(t *testing.T) {
	_, err := NewNormalizer([]Rule{{Pattern: "(", Label: "x"}})
	assert.Error(t, err)
	_, err = NewNormalizer([]Rule{{Pattern: "x"}})
	assert.ErrorContains(t, err, "empty label")
}

func TestReadRuleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
exclude: [Simd]
reference: AbseilHash
rules:
  - pattern: ^Fast
    label: Quick
`), 0o666))

	rf, err := ReadRuleFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Simd"}, rf.Exclude)
	require.NotNil(t, rf.Reference)
	assert.Equal(t, "AbseilHash", *rf.Reference)
	require.Len(t, rf.Rules, 1)

	n, err := NewNormalizer(rf.Rules)
	require.NoError(t, err)
	assert.Equal(t, "Quick", n.Label("FastHash"))

	// Unknown keys are rejected.
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rulez: []\n"), 0o666))
	_, err = ReadRuleFile(bad)
	assert.Error(t, err)

	// An empty file keeps every default.
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o666))
	rf, err = ReadRuleFile(empty)
	require.NoError(t, err)
	assert.Nil(t, rf.Reference)
	assert.Nil(t, rf.Rules)

	_, err = ReadRuleFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestFilter(t *testing.T) {
	n, err := NewNormalizer(DefaultRules)
	require.NoError(t, err)

	f := &Filter{Exclude: DefaultExclude}
	assert.False(t, f.Apply("PextSimdUrl"))
	assert.False(t, f.Apply("MurmurHash"))
	assert.True(t, f.Apply("AbseilHash_v2_simd"))
	assert.True(t, f.Apply("STDHashSrc"))

	f = &Filter{Exclude: DefaultExclude, Only: []string{"Abseil", "Gpt"}, Labels: n}
	assert.True(t, f.Apply("AbseilHash"))
	assert.True(t, f.Apply("GptUrl"))
	assert.False(t, f.Apply("STDHashSrc"))
	assert.False(t, f.Apply("AbseilSimdHash"))

	var nilFilter *Filter
	assert.True(t, nilFilter.Apply("anything"))
}
