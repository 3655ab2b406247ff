// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/archive"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keytab"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyproc"
	"go.uber.org/zap"
)

// A driver carries the settings shared by every analysis of one
// invocation.
type driver struct {
	ctx  context.Context
	w    io.Writer
	log  *zap.Logger
	opts *options

	thresholds keymath.Thresholds
	labels     *keyproc.Normalizer // nil with --raw-names
	filter     *keyproc.Filter
	reference  string

	archive *archive.DB // nil unless --archive
}

// configure resolves the label rules, exclusion list and reference
// from the defaults, the rule file and the flags, in increasing order
// of precedence.
func (d *driver) configure(excludeSet, referenceSet bool) error {
	rules := keyproc.DefaultRules
	exclude := d.opts.exclude
	d.reference = d.opts.reference

	if d.opts.rules != "" {
		rf, err := keyproc.ReadRuleFile(d.opts.rules)
		if err != nil {
			return err
		}
		if rf.Rules != nil {
			rules = rf.Rules
		}
		if rf.Exclude != nil && !excludeSet {
			exclude = rf.Exclude
		}
		if rf.Reference != nil && !referenceSet {
			d.reference = *rf.Reference
		}
		d.log.Debug("read rule file", zap.String("path", d.opts.rules), zap.Int("rules", len(rules)))
	}

	if !d.opts.rawNames {
		n, err := keyproc.NewNormalizer(rules)
		if err != nil {
			return err
		}
		d.labels = n
	}
	d.filter = &keyproc.Filter{Exclude: exclude, Only: d.opts.hashFuncs, Labels: d.labels}
	return nil
}

// defaultLabel returns the label for outputs derived from paths.
func (d *driver) defaultLabel(paths []string) string {
	if d.opts.label != "" {
		return d.opts.label
	}
	if len(paths) == 1 {
		return baseLabel(paths[0])
	}
	return "global"
}

func baseLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outPath returns the path of output file name, creating the output
// directory if needed.
func (d *driver) outPath(name string) (string, error) {
	if err := os.MkdirAll(d.opts.outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output directory")
	}
	return filepath.Join(d.opts.outDir, name), nil
}

// writeTable writes t in CSV form to output file name.
func (d *driver) writeTable(name string, t *keytab.Table) error {
	path, err := d.outPath(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating results file")
	}
	if err := t.ToCSV(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	d.log.Info("results written", zap.String("path", path))
	return nil
}

// printTable prints t to the output under title and logs its
// warnings.
func (d *driver) printTable(title string, t *keytab.Table) error {
	if _, err := fmt.Fprintf(d.w, "%s\n", title); err != nil {
		return err
	}
	warnings := t.Warnings
	t.Warnings = nil
	err := t.ToText(d.w, d.opts.fullPrint)
	t.Warnings = warnings
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(d.w); err != nil {
		return err
	}
	for _, warn := range warnings {
		d.log.Warn(warn.Error(), zap.String("table", title))
	}
	return nil
}

// emit prints t and writes it to output file name.
func (d *driver) emit(title, name string, t *keytab.Table) error {
	if err := d.printTable(title, t); err != nil {
		return err
	}
	return d.writeTable(name, t)
}

// save stores run in the archive, if there is one.
func (d *driver) save(run *archive.Run) error {
	if d.archive == nil {
		return nil
	}
	if err := d.archive.Save(d.ctx, run); err != nil {
		return err
	}
	d.log.Info("results archived", zap.String("run", run.ID))
	return nil
}
