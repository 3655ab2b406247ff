// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keytab aggregates keyuser results and presents them as
// tables.
package keytab

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/keyfmt"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyproc"
)

// A Builder groups keyuser records by benchmark configuration and name
// and collects their metric values.
type Builder struct {
	nameCol string
	metrics []string

	// configBy projects the configuration columns present in the
	// input. It is created from the first record.
	configBy *keyproc.Schema

	// groups maps from (config, name) to the values of that group.
	groups map[GroupKey]*group
	// names and configs are the observed names and configurations.
	names   map[string]struct{}
	configs map[keyproc.Config]struct{}
}

// GroupKey identifies one group: a configuration and a name.
type GroupKey struct {
	Config keyproc.Config
	Name   string
}

type group struct {
	// values maps from metric column to observed values, in input
	// order.
	values map[string][]float64
}

// NewBuilder returns a Builder that groups records by the
// configuration columns and nameCol, collecting the listed metric
// columns.
func NewBuilder(nameCol string, metrics ...string) *Builder {
	return &Builder{
		nameCol: nameCol,
		metrics: metrics,
		groups:  make(map[GroupKey]*group),
		names:   make(map[string]struct{}),
		configs: make(map[keyproc.Config]struct{}),
	}
}

// Metrics returns the metric columns collected by b.
func (b *Builder) Metrics() []string {
	return b.metrics
}

// Add adds rec to its group.
//
// If a metric value of rec is not a number, Add skips rec and returns
// a *keyfmt.SyntaxError; the caller may continue adding records. Any
// other error means rec lacks a required column.
func (b *Builder) Add(rec *keyfmt.Record) error {
	if b.configBy == nil {
		required := keyproc.NewSchema(append([]string{b.nameCol}, b.metrics...)...)
		if err := required.Check(rec.Header); err != nil {
			return errors.Wrapf(err, "%s", rec.File)
		}
		// Input without configuration columns, such as hash
		// performance output, forms one configuration.
		var cols []string
		for _, c := range keyfmt.ConfigColumns {
			if rec.Header.Has(c) {
				cols = append(cols, c)
			}
		}
		b.configBy = keyproc.NewSchema(cols...)
	}

	// Parse all metrics before touching any group, so a bad row is
	// dropped entirely.
	vals := make([]float64, len(b.metrics))
	for i, m := range b.metrics {
		v, err := rec.Float(m)
		if err != nil {
			return err
		}
		vals[i] = v
	}

	cfg := b.configBy.Project(rec)
	name := rec.Get(b.nameCol)
	key := GroupKey{cfg, name}
	g := b.groups[key]
	if g == nil {
		g = &group{values: make(map[string][]float64)}
		b.groups[key] = g
		b.names[name] = struct{}{}
		b.configs[cfg] = struct{}{}
	}
	for i, m := range b.metrics {
		g.values[m] = append(g.values[m], vals[i])
	}
	return nil
}

// Len returns the number of groups.
func (b *Builder) Len() int {
	return len(b.groups)
}

// Names returns the observed names in sorted order.
func (b *Builder) Names() []string {
	names := make([]string, 0, len(b.names))
	for n := range b.names {
		names = append(names, n)
	}
	keyproc.SortNames(names)
	return names
}

// Configs returns the observed configurations in sorted order.
func (b *Builder) Configs() []keyproc.Config {
	return mapConfigs(b.configs)
}

func mapConfigs(m map[keyproc.Config]struct{}) []keyproc.Config {
	var cs []keyproc.Config
	for k := range m {
		cs = append(cs, k)
	}
	keyproc.SortConfigs(cs)
	return cs
}

// A Summary is the per-group mean of each metric.
type Summary struct {
	GroupKey

	// N is the number of records in the group.
	N int

	// Means maps from metric column to the mean of its values.
	Means map[string]float64
}

// Summaries returns one Summary per group, ordered by configuration
// and then by name.
func (b *Builder) Summaries() []*Summary {
	var out []*Summary
	for _, cfg := range b.Configs() {
		for _, name := range b.Names() {
			g, ok := b.groups[GroupKey{cfg, name}]
			if !ok {
				continue
			}
			s := &Summary{GroupKey: GroupKey{cfg, name}, Means: make(map[string]float64)}
			for _, m := range b.metrics {
				s.N = len(g.values[m])
				s.Means[m] = keymath.Mean(g.values[m])
			}
			out = append(out, s)
		}
	}
	return out
}

// Samples returns, for each name in sorted order, every value of
// metric across all configurations.
func (b *Builder) Samples(metric string) []keymath.Group {
	return b.samples(metric, func(GroupKey) bool { return true })
}

// ConfigSamples is like Samples, restricted to configuration cfg.
// Names not observed in cfg are omitted.
func (b *Builder) ConfigSamples(cfg keyproc.Config, metric string) []keymath.Group {
	return b.samples(metric, func(k GroupKey) bool { return k.Config == cfg })
}

func (b *Builder) samples(metric string, keep func(GroupKey) bool) []keymath.Group {
	configs := b.Configs()
	var out []keymath.Group
	for _, name := range b.Names() {
		var vals []float64
		for _, cfg := range configs {
			k := GroupKey{cfg, name}
			if g, ok := b.groups[k]; ok && keep(k) {
				vals = append(vals, g.values[metric]...)
			}
		}
		if vals != nil {
			out = append(out, keymath.Group{Name: name, Values: vals})
		}
	}
	return out
}

// A GeoMean holds the geometric means of one name's samples.
type GeoMean struct {
	Name string

	// Time is the geometric mean, across configurations, of the
	// geometric mean of each configuration's execution times.
	Time float64

	// Collision is computed like Time from collision counts, except
	// that a zero count contributes the identity, so a name that
	// never collides has a Collision of 1.
	Collision float64

	Warnings []error
}

// GeoMeans returns the geometric means of every name's samples of
// timeCol and collisionCol, in sorted name order. Each configuration
// is reduced to one value first, so every configuration carries equal
// weight regardless of its number of trials.
func (b *Builder) GeoMeans(timeCol, collisionCol string) []GeoMean {
	configs := b.Configs()
	var out []GeoMean
	for _, name := range b.Names() {
		var times, colls []float64
		for _, cfg := range configs {
			g, ok := b.groups[GroupKey{cfg, name}]
			if !ok {
				continue
			}
			times = append(times, keymath.GeoMean(g.values[timeCol]))
			colls = append(colls, keymath.GeoMeanNonZero(g.values[collisionCol]))
		}
		gm := GeoMean{
			Name:      name,
			Time:      keymath.GeoMean(times),
			Collision: keymath.GeoMeanNonZero(colls),
		}
		if math.IsNaN(gm.Time) {
			gm.Warnings = append(gm.Warnings, errors.Newf("%s: execution times must be >0 to compute geomean", name))
		}
		if math.IsNaN(gm.Collision) {
			gm.Warnings = append(gm.Warnings, errors.Newf("%s: collision counts must be >=0 to compute geomean", name))
		}
		out = append(out, gm)
	}
	return out
}

// A NameValue is a single value for one name.
type NameValue struct {
	Name  string
	Value float64
}

// Means returns the mean of metric for each name, over all its
// records, in sorted name order.
func (b *Builder) Means(metric string) []NameValue {
	var out []NameValue
	for _, g := range b.Samples(metric) {
		out = append(out, NameValue{g.Name, keymath.Mean(g.Values)})
	}
	return out
}
