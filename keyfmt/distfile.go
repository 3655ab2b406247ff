// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyfmt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// SamplePrefix is the conventional prefix of sample set keys in
// distribution files. It is stripped from display names.
const SamplePrefix = "array_"

// A SampleSet is a named sequence of hash outputs over a key
// population. Sample sets are not modified after they are read.
type SampleSet struct {
	// Key is the key as it appears in the file.
	Key string
	// Name is Key without SamplePrefix.
	Name string

	Values []float64
}

// Distributions is the content of one distribution file.
type Distributions struct {
	// File is the path the distributions were read from.
	File string
	// Label is the base name of File without its extension.
	Label string

	// Sets are the sample sets in file order.
	Sets []SampleSet
}

// Lookup returns the sample set whose Name or Key is name.
func (d *Distributions) Lookup(name string) (*SampleSet, bool) {
	for i := range d.Sets {
		if d.Sets[i].Name == name || d.Sets[i].Key == name {
			return &d.Sets[i], true
		}
	}
	return nil, false
}

// ReadDistributions reads a distribution file. The file is a YAML (or
// JSON) document with a top-level "distributions" mapping from sample
// set key to a list of numbers:
//
//	distributions:
//	  array_STDHashSrc: [3, 1, 4, 1, 5]
//	  array_AbseilHash: [9, 2, 6, 5, 3]
func ReadDistributions(path string) (*Distributions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading distribution file")
	}
	return ParseDistributions(data, path)
}

// ParseDistributions parses the content of a distribution file.
// fileName is used for the File and Label fields and in error
// messages.
func ParseDistributions(data []byte, fileName string) (*Distributions, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "%s", fileName)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.Newf("%s: empty distribution file", fileName)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf("%s:%d: expected a mapping at top level", fileName, root.Line)
	}

	var dists *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "distributions" {
			dists = root.Content[i+1]
			break
		}
	}
	if dists == nil {
		return nil, errors.Newf("%s: no \"distributions\" mapping", fileName)
	}
	if dists.Kind != yaml.MappingNode {
		return nil, errors.Newf("%s:%d: \"distributions\" must be a mapping", fileName, dists.Line)
	}

	base := filepath.Base(fileName)
	d := &Distributions{
		File:  fileName,
		Label: strings.TrimSuffix(base, filepath.Ext(base)),
	}
	// Walk the node rather than decoding into a map so the sample
	// sets keep their file order.
	for i := 0; i+1 < len(dists.Content); i += 2 {
		k, v := dists.Content[i], dists.Content[i+1]
		var vals []float64
		if err := v.Decode(&vals); err != nil {
			return nil, errors.Wrapf(err, "%s:%d: sample set %q", fileName, v.Line, k.Value)
		}
		d.Sets = append(d.Sets, SampleSet{
			Key:    k.Value,
			Name:   strings.TrimPrefix(k.Value, SamplePrefix),
			Values: vals,
		})
	}
	return d, nil
}
