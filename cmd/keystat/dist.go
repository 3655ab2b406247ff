// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/archive"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keyplot"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keytab"
	"github.com/lac-dcc/keystat/keyfmt"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyproc"
	"go.uber.org/zap"
)

// distribution tests the hash values in each distribution file for
// uniformity, then averages the normalized chi-square statistics of
// every label across files.
func (d *driver) distribution(paths []string) error {
	sums := make(map[string]float64)
	var labels []string
	var label string
	run := archive.NewRun("", "distribution")

	for _, path := range paths {
		dists, err := keyfmt.ReadDistributions(path)
		if err != nil {
			return err
		}
		label = dists.Label

		// The reference normalizes every set of the file, so it is
		// looked up before excluded names are dropped.
		ref := 1.0
		if d.reference != "" {
			set, ok := dists.Lookup(d.reference)
			if !ok {
				return errors.Newf("%s: reference hash function %q not found", path, d.reference)
			}
			ref = keymath.GoodnessOfFit(set.Name, set.Values).ChiSquare
			if ref == 0 {
				d.log.Warn("reference chi-square is zero; using unnormalized values",
					zap.String("file", path), zap.String("reference", d.reference))
				ref = 1
			}
		}

		var fits []*keymath.Fit
		var groups []keymath.Group
		for _, set := range dists.Sets {
			if !d.filter.Apply(set.Name) {
				d.log.Debug("excluded", zap.String("file", path), zap.String("set", set.Name))
				continue
			}
			f := keymath.GoodnessOfFit(set.Name, set.Values)
			d.log.Debug("fit", zap.String("file", path), zap.String("set", set.Name),
				zap.Int("n", f.N), zap.Int("bins", f.Bins), zap.Float64("chi", f.ChiSquare))
			fits = append(fits, f)
			groups = append(groups, keymath.Group{Name: set.Name, Values: set.Values})
		}
		if len(fits) == 0 {
			d.log.Warn("no sample sets left after exclusion", zap.String("file", path))
			continue
		}
		run.AddFits(path, fits)

		if err := d.emit(dists.Label, dists.Label+"_distribution.csv", keytab.FitTable(fits, &d.thresholds)); err != nil {
			return err
		}
		if d.opts.plot {
			hpath, err := d.outPath(dists.Label + "_histogram.svg")
			if err != nil {
				return err
			}
			if err := keyplot.Histograms(hpath, dists.Label, groups); err != nil {
				return err
			}
			d.log.Info("results written", zap.String("path", hpath))
		}

		for _, f := range fits {
			l := d.labels.Label(f.Name)
			if _, ok := sums[l]; !ok {
				labels = append(labels, l)
			}
			sums[l] += f.ChiSquare / ref
		}
	}

	if d.opts.label != "" {
		label = d.opts.label
	}
	run.Label = label

	keyproc.SortNames(labels)
	vals := make([]keytab.NameValue, len(labels))
	for i, l := range labels {
		vals[i] = keytab.NameValue{Name: l, Value: sums[l] / float64(len(paths))}
		if math.IsNaN(vals[i].Value) {
			d.log.Warn("normalized chi-square is NaN", zap.String("function", l))
		}
	}
	tab := keytab.ValueTable("Hash Function", "Chi-Test", vals)
	if err := d.emit("Normalized chi-square", label+"_chitest.csv", tab); err != nil {
		return err
	}
	return d.save(run)
}
