// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import (
	"hash/maphash"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/keyfmt"
)

// A Schema projects records onto a fixed tuple of columns, producing
// a Config. Records with identical values in those columns project to
// the same Config.
type Schema struct {
	fields []Field

	// configs is the set of interned Configs, keyed by the hash of
	// their values.
	configs map[uint64][]*configNode

	// row is a scratch buffer for projection.
	row []string
}

// A Field is one column of a Schema.
type Field struct {
	// Name is the column name.
	Name string

	schema *Schema
	idx    int
	cmp    func(a, b string) int
}

func (f Field) String() string {
	return f.Name
}

var configSeed = maphash.MakeSeed()

// NewSchema returns a Schema over the named columns. Values of each
// column sort numerically if they parse as numbers, and
// alphabetically otherwise.
func NewSchema(cols ...string) *Schema {
	s := &Schema{configs: make(map[uint64][]*configNode)}
	for i, c := range cols {
		s.fields = append(s.fields, Field{Name: c, schema: s, idx: i, cmp: compareValues})
	}
	s.row = make([]string, len(cols))
	return s
}

// Fields returns the fields of s in projection order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Check returns an error naming any column of s missing from h.
func (s *Schema) Check(h *keyfmt.Header) error {
	var missing []string
	for _, f := range s.fields {
		if !h.Has(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return errors.Newf("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// Project extracts the Schema's columns from rec.
func (s *Schema) Project(rec *keyfmt.Record) Config {
	for i, f := range s.fields {
		s.row[i] = rec.Get(f.Name)
	}
	return s.internRow()
}

// Config returns the Config with the given values, one per field.
// Missing trailing values are empty.
func (s *Schema) Config(vals ...string) Config {
	for i := range s.row {
		s.row[i] = ""
		if i < len(vals) {
			s.row[i] = vals[i]
		}
	}
	return s.internRow()
}

func (s *Schema) internRow() Config {
	var h maphash.Hash
	h.SetSeed(configSeed)
	for _, val := range s.row {
		h.WriteString(val)
		h.WriteByte(0)
	}
	hash := h.Sum64()

	// Check if we already have this configuration.
	for _, config := range s.configs[hash] {
		if config.equalRow(s.row) {
			return Config{config}
		}
	}

	config := &configNode{s, append([]string(nil), s.row...)}
	s.configs[hash] = append(s.configs[hash], config)
	return Config{config}
}

// A Config is an immutable tuple of column values whose structure is
// given by a Schema. Two Configs are == if they come from the same
// Schema and have identical values.
type Config struct {
	c *configNode
}

// IsZero reports whether c is a zeroed Config with no schema and no fields.
func (c Config) IsZero() bool {
	return c.c == nil
}

// Get returns the value of Field f in this Config.
//
// It panics if Field f does not come from the same Schema as the
// Config.
func (c Config) Get(f Field) string {
	if c.IsZero() {
		panic("zero Config has no fields")
	}
	if c.c.schema != f.schema {
		panic("Config and Field have different Schemas")
	}
	return c.c.vals[f.idx]
}

// Values returns the values of c in schema order. The caller must not
// modify the result.
func (c Config) Values() []string {
	if c.IsZero() {
		return nil
	}
	return c.c.vals
}

// Schema returns the Schema describing Config c.
func (c Config) Schema() *Schema {
	if c.IsZero() {
		return nil
	}
	return c.c.schema
}

// String returns Config as a space-separated sequence of key:value
// pairs in schema order.
func (c Config) String() string {
	return c.string(true, " ")
}

// FileName returns Config's values joined by underscores, with
// characters that are awkward in file names removed.
func (c Config) FileName() string {
	s := c.string(false, "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '%', '(', ')':
			return -1
		}
		return r
	}, s)
}

func (c Config) string(keys bool, sep string) string {
	if c.IsZero() {
		return "<zero>"
	}
	buf := new(strings.Builder)
	for _, field := range c.c.schema.fields {
		val := c.c.vals[field.idx]
		if val == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(sep)
		}
		if keys {
			buf.WriteString(field.Name)
			buf.WriteByte(':')
		}
		buf.WriteString(val)
	}
	return buf.String()
}

// commonSchema returns the Schema that all configs have, or panics if
// any Config has a different Schema. It returns nil if len(configs)
// == 0.
func commonSchema(configs []Config) *Schema {
	if len(configs) == 0 {
		return nil
	}
	s := configs[0].Schema()
	for _, c := range configs[1:] {
		if c.Schema() != s {
			panic("Configs must all have the same Schema")
		}
	}
	return s
}

// configNode is the internal heap-allocated object backing a Config.
// This allows Config itself to be a value type whose equality is
// determined by the pointer equality of the underlying configNode.
type configNode struct {
	schema *Schema
	vals   []string
}

func (n *configNode) equalRow(row []string) bool {
	if len(n.vals) != len(row) {
		return false
	}
	for i, v := range n.vals {
		if row[i] != v {
			return false
		}
	}
	return true
}
