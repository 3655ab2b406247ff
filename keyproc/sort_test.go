// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	check := func(cfgs []Config, want ...string) {
		t.Helper()
		SortConfigs(cfgs)
		var got []string
		for _, cfg := range cfgs {
			got = append(got, cfg.String())
		}
		assert.Equal(t, want, got)
	}

	// Numeric.
	s := NewSchema("a")
	c := []Config{s.Config("100"), s.Config("20"), s.Config("3")}
	check(c, "a:3", "a:20", "a:100")

	// Numeric with strings.
	c = []Config{s.Config("b"), s.Config("a"), s.Config("100"), s.Config("20")}
	check(c, "a:20", "a:100", "a:a", "a:b")

	// Tuples sort field by field.
	s = NewSchema("mode", "keys")
	c = []Config{
		s.Config("Interweaved", "100"),
		s.Config("Batched", "1000"),
		s.Config("Batched", "200"),
	}
	check(c, "mode:Batched keys:200", "mode:Batched keys:1000", "mode:Interweaved keys:100")

	// Numeric with weird cases.
	s = NewSchema("a")
	c = []Config{
		s.Config("1"), s.Config("-inf"), s.Config("inf"), s.Config("1.0"), s.Config("NaN"),
	}
	// Shuffle the slice to exercise any instabilities.
	for try := 0; try < 10; try++ {
		for i := 1; i < len(c); i++ {
			p := rand.Intn(i)
			c[p], c[i] = c[i], c[p]
		}
		check(c, "a:-inf", "a:1", "a:1.0", "a:inf", "a:NaN")
	}
}

func TestSortNames(t *testing.T) {
	names := []string{"STL", "Abseil", "10", "9", "Aes"}
	SortNames(names)
	assert.Equal(t, []string{"9", "10", "Abseil", "Aes", "STL"}, names)
}

func TestCompareValues(t *testing.T) {
	check := func(a, b string, want int) {
		t.Helper()
		assert.Equal(t, want, compareValues(a, b), "%s vs %s", a, b)
		assert.Equal(t, -want, compareValues(b, a), "%s vs %s", b, a)
	}

	check("2", "10", -1)
	check("100.5", "100.5", 0)
	check("5%", "50%", -1)
	check("50%", "50", 0)
	check("NaN", "1", 1)
	check("1000", "Batched", -1)
	check("Batched", "Interweaved", -1)

	_, err := parseNum("Batched")
	assert.Error(t, err)
}
