// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyproc

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// A Rule maps raw hash function names that match Pattern at their
// start to the canonical family name Label.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Label   string `yaml:"label"`

	re *regexp.Regexp
}

// DefaultRules is the built-in rule table, in evaluation order.
var DefaultRules = []Rule{
	{Pattern: "AbseilHash", Label: "Abseil"},
	{Pattern: "FNVHash", Label: "FNV"},
	{Pattern: "CityHash", Label: "City"},
	{Pattern: "Pext", Label: "Pext"},
	{Pattern: "OffXor", Label: "OffXor"},
	{Pattern: "Naive", Label: "Naive"},
	{Pattern: "Gperf", Label: "Gperf"},
	{Pattern: "Gpt", Label: "Gpt"},
	{Pattern: "STDHashSrc", Label: "STL"},
	{Pattern: "Aes", Label: "Aes"},
}

// DefaultExclude are the name fragments dropped from every analysis
// unless overridden.
var DefaultExclude = []string{"Simd", "Murmur"}

// DefaultReference is the raw name of the sample set that chi-square
// values are normalized by.
const DefaultReference = "STDHashSrc"

// A Normalizer maps raw hash function names to canonical labels using
// an ordered rule table. The first matching rule wins.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer compiles rules into a Normalizer. A rule's pattern is
// anchored at the start of the name whether or not it begins with "^".
func NewNormalizer(rules []Rule) (*Normalizer, error) {
	n := &Normalizer{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		pat := r.Pattern
		if !strings.HasPrefix(pat, "^") {
			pat = "^" + pat
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d (%s)", i+1, r.Label)
		}
		if r.Label == "" {
			return nil, errors.Newf("rule %d (%s): empty label", i+1, r.Pattern)
		}
		r.re = re
		n.rules[i] = r
	}
	return n, nil
}

// Label returns the canonical label for raw, or raw itself if no rule
// matches.
func (n *Normalizer) Label(raw string) string {
	if n == nil {
		return raw
	}
	for _, r := range n.rules {
		if r.re.MatchString(raw) {
			return r.Label
		}
	}
	return raw
}

// A RuleFile is the YAML form of a label configuration:
//
//	exclude: [Simd, Murmur]
//	reference: STDHashSrc
//	rules:
//	  - pattern: ^AbseilHash
//	    label: Abseil
//
// Omitted fields keep their defaults.
type RuleFile struct {
	Exclude   []string `yaml:"exclude"`
	Reference *string  `yaml:"reference"`
	Rules     []Rule   `yaml:"rules"`
}

// ReadRuleFile reads a RuleFile from path.
func ReadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rule file")
	}
	var rf RuleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &rf, nil
}
