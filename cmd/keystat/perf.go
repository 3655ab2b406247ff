// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/archive"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keyplot"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keytab"
	"github.com/lac-dcc/keystat/keyfmt"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyunit"
	"go.uber.org/zap"
)

// load reads paths into b, dropping filtered names and relabeling
// the rest. If out is non-nil, every accepted record is also written
// to it.
func (d *driver) load(b *keytab.Builder, nameCol string, paths []string, out *keyfmt.Writer) error {
	files := &keyfmt.Files{Paths: paths}
	skipped := 0
	for files.Scan() {
		rec, err := files.Record()
		if err != nil {
			// Non-fatal record parse error. Warn
			// but keep going.
			d.log.Warn("skipping malformed record", zap.Error(err))
			continue
		}

		raw := rec.Get(nameCol)
		if !d.filter.Apply(raw) {
			skipped++
			continue
		}
		rec.Set(nameCol, d.labels.Label(raw))

		if err := b.Add(rec); err != nil {
			var serr *keyfmt.SyntaxError
			if errors.As(err, &serr) {
				d.log.Warn("skipping record", zap.Error(err))
				continue
			}
			return err
		}
		if out != nil {
			if err := out.Write(rec); err != nil {
				return errors.Wrap(err, "writing normalized records")
			}
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	d.log.Debug("loaded records", zap.Strings("paths", paths), zap.Int("groups", b.Len()), zap.Int("filtered", skipped))
	if b.Len() == 0 {
		return errors.Newf("no records to analyze in %v", paths)
	}
	return nil
}

// performance compares hash functions (or containers) by execution
// time and collision count.
func (d *driver) performance(paths []string) error {
	label := d.defaultLabel(paths)

	nameCol := keyfmt.ColHash
	metrics := []string{keyfmt.ColTime, keyfmt.ColCollisions}
	if d.opts.containers {
		nameCol = keyfmt.ColContainer
		metrics = []string{keyfmt.ColTime}
	}
	b := keytab.NewBuilder(nameCol, metrics...)

	normPath, err := d.outPath(label + "_normalized.csv")
	if err != nil {
		return err
	}
	normFile, err := os.Create(normPath)
	if err != nil {
		return errors.Wrap(err, "creating results file")
	}
	defer normFile.Close()
	norm := keyfmt.NewWriter(normFile)
	if err := d.load(b, nameCol, paths, norm); err != nil {
		return err
	}
	if err := norm.Flush(); err != nil {
		return errors.Wrapf(err, "writing %s", normPath)
	}
	if err := normFile.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", normPath)
	}
	d.log.Info("results written", zap.String("path", normPath))

	run := archive.NewRun(label, "performance")

	if err := d.printTable("Group means", keytab.SummaryTable(b)); err != nil {
		return err
	}

	for _, metric := range metrics {
		cmps := keymath.Pairwise(b.Samples(metric))
		name := fmt.Sprintf("%s_%s_mannwhitneyu.csv", label, keyunit.FileSafe(metric))
		if err := d.emit("Mann-Whitney U: "+metric, name, keytab.UTestTable(cmps, &d.thresholds)); err != nil {
			return err
		}
		run.AddComparisons(metric, cmps, &d.thresholds)
	}

	if !d.opts.containers {
		run.GeoMeans = b.GeoMeans(keyfmt.ColTime, keyfmt.ColCollisions)
		if err := d.emit("Geometric means", label+"_geomean.csv", keytab.GeoMeanTable(run.GeoMeans)); err != nil {
			return err
		}
	}

	if d.opts.containers {
		if err := d.boxPlot("containers.pdf", "Hash Containers", keyfmt.ColTime, b.Samples(keyfmt.ColTime)); err != nil {
			return err
		}
	}
	if d.opts.plot {
		if err := d.perfPlots(b, label); err != nil {
			return err
		}
	}

	return d.save(run)
}

func (d *driver) perfPlots(b *keytab.Builder, label string) error {
	if !d.opts.containers {
		if err := d.boxPlot(label+"_collision_count.pdf", "Collision Count", keyfmt.ColCollisions, b.Samples(keyfmt.ColCollisions)); err != nil {
			return err
		}
	}

	skip := make(map[string]bool)
	for _, s := range d.opts.plotSkip {
		skip[s] = true
	}
	var perf []keymath.Group
	for _, g := range b.Samples(keyfmt.ColTime) {
		if !skip[g.Name] {
			perf = append(perf, g)
		}
	}
	if err := d.boxPlot(label+"_performance.pdf", "Performance", keyfmt.ColTime, perf); err != nil {
		return err
	}

	for _, cfg := range b.Configs() {
		name := cfg.FileName()
		if name == "" {
			name = "all"
		}
		if err := d.boxPlot(label+"_"+name+".svg", cfg.String(), keyfmt.ColTime, b.ConfigSamples(cfg, keyfmt.ColTime)); err != nil {
			return err
		}
	}
	return nil
}

func (d *driver) boxPlot(name, title, ylabel string, groups []keymath.Group) error {
	path, err := d.outPath(name)
	if err != nil {
		return err
	}
	if err := keyplot.BoxPlot(path, title, ylabel, groups); err != nil {
		return err
	}
	d.log.Info("results written", zap.String("path", path))
	return nil
}

// hashPerformance prints the mean elapsed time of each hash function
// in milliseconds.
func (d *driver) hashPerformance(paths []string) error {
	b := keytab.NewBuilder(keyfmt.ColHash, keyfmt.ColElapsed)
	if err := d.load(b, keyfmt.ColHash, paths, nil); err != nil {
		return err
	}
	for _, m := range b.Means(keyfmt.ColElapsed) {
		if _, err := fmt.Fprintf(d.w, "%s,%.4f\n", m.Name, keyunit.Millis(m.Value, keyfmt.ColElapsed)); err != nil {
			return err
		}
	}
	return nil
}
