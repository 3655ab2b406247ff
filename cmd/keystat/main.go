// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Keystat analyzes the results of the keyuser hash function
// benchmark.
//
// Usage:
//
//	keystat -p results.csv [more.csv...] [flags]
//	keystat -d dist.yaml [more.yaml...] [flags]
//
// In performance mode (-p), each input is a CSV file written by
// keyuser with one row per benchmark trial:
//
//	Execution Mode, Num Operations, Num Keys, Insertions (%), Searches (%), Eliminatons(%), Hash Function, Execution Time (s), Collision Count
//	Batched, 1000, 100, 50, 30, 20, AbseilHashSSN, 0.0021, 3
//	Batched, 1000, 100, 50, 30, 20, CityHashSSN, 0.0019, 5
//
// All inputs must have the same columns. Rows are grouped by benchmark
// configuration (every column but the hash function and the
// measurements) and hash function. For each measurement, keystat runs
// a two-sided Mann-Whitney U test between every pair of hash
// functions and writes the p-values to
// <label>_<measurement>_mannwhitneyu.csv. It writes the geometric mean
// across configurations of each function's per-configuration geometric
// mean execution time and collision count to <label>_geomean.csv. The label is set by --label
// and defaults to the input's base name, or "global" for several
// inputs.
//
// Raw hash function names are shortened to family labels such as
// "Abseil" or "STL" before aggregation, and functions whose names
// contain "Simd" or "Murmur" are left out. A YAML rule file (-rules)
// can replace both:
//
//	exclude: [Simd]
//	reference: STDHashSrc
//	rules:
//	  - pattern: ^AbseilHash
//	    label: Abseil
//
// In distribution mode (-d), each input is a YAML or JSON file
// holding the hash values each function produced for a key set:
//
//	distributions:
//	  array_STDHashSrc: [17, 3, 99, 42]
//	  array_AbseilHashSSN: [5, 81, 23, 60]
//
// For each sample set, keystat computes the skewness and a chi-square
// test of uniformity and writes them to <file>_distribution.csv.
// Across files, it divides each chi-square by that of the reference
// function (-reference), averages the result per label, and writes
// <label>_chitest.csv.
//
// With -g, keystat also draws box plots and histograms. All outputs
// go to the directory given by -o.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/archive"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyproc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	perf, dist []string

	hashPerf, containers bool
	plot, fullPrint      bool
	rawNames, verbose    bool

	outDir     string
	label      string
	hashFuncs  []string
	alpha      float64
	exclude    []string
	rules      string
	reference  string
	plotSkip   []string
	archiveDSN string
	archiveDrv string
}

func main() {
	if err := keystat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "keystat: %s\n", err)
		os.Exit(1)
	}
}

func keystat(w, wErr io.Writer, args []string) error {
	cmd := newCommand(w, wErr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newCommand(w, wErr io.Writer) *cobra.Command {
	opts := &options{alpha: keymath.DefaultThresholds.Alpha}
	cmd := &cobra.Command{
		Use:   "keystat (-p | -d) inputs... [flags]",
		Short: "Statistical analysis of keyuser hash benchmark results",
		Long: `keystat analyzes the output of the keyuser hash function benchmark.

In performance mode (-p) it compares execution times and collision
counts of hash functions with Mann-Whitney U tests and geometric means.
In distribution mode (-d) it tests the uniformity of hash values with
chi-square tests and reports their skewness.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(wErr, opts.verbose)
			defer log.Sync()
			return run(cmd, w, log, opts, args)
		},
	}
	cmd.SetOut(w)
	cmd.SetErr(wErr)

	f := cmd.Flags()
	f.StringArrayVarP(&opts.perf, "performance", "p", nil, "analyze keyuser performance results in CSV `file`")
	f.StringArrayVarP(&opts.dist, "distribution", "d", nil, "analyze hash value distributions in YAML or JSON `file`")
	f.BoolVar(&opts.hashPerf, "hash-performance", false, "print the mean elapsed time in milliseconds of each hash function and exit")
	f.BoolVar(&opts.containers, "containers", false, "compare hash containers instead of hash functions")
	f.BoolVarP(&opts.plot, "plot-graph", "g", false, "draw box plots and histograms")
	f.StringVarP(&opts.outDir, "output-destination", "o", "results", "write output files to `dir`")
	f.BoolVarP(&opts.fullPrint, "full-print", "f", false, "print tables in full instead of eliding long ones")
	f.StringSliceVar(&opts.hashFuncs, "hash-functions", nil, "analyze only these hash `functions` (raw names or labels)")
	f.StringVar(&opts.label, "label", "", "prefix output files with `label`")
	f.Float64Var(&opts.alpha, "alpha", opts.alpha, "significance level `α` for statistical tests")
	f.StringSliceVar(&opts.exclude, "exclude", keyproc.DefaultExclude, "leave out hash functions whose names contain any of `substrings`")
	f.StringVar(&opts.rules, "rules", "", "read label rules from YAML `file`")
	f.StringVar(&opts.reference, "reference", keyproc.DefaultReference, "normalize chi-square values by hash `function` (empty disables)")
	f.BoolVar(&opts.rawNames, "raw-names", false, "do not shorten hash function names to labels")
	f.StringSliceVar(&opts.plotSkip, "plot-skip", []string{"Gperf"}, "leave `labels` out of the performance box plot")
	f.StringVar(&opts.archiveDSN, "archive", "", "store results in the database at `dsn`")
	f.StringVar(&opts.archiveDrv, "archive-driver", "sqlite3", "archive database `driver` (sqlite3 or mysql)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debugging information")
	cmd.MarkFlagsMutuallyExclusive("performance", "distribution")

	return cmd
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

func run(cmd *cobra.Command, w io.Writer, log *zap.Logger, opts *options, args []string) error {
	// Positional arguments extend whichever mode was selected.
	switch {
	case len(opts.perf) > 0:
		opts.perf = append(opts.perf, args...)
	case len(opts.dist) > 0:
		opts.dist = append(opts.dist, args...)
	default:
		log.Warn("no mode selected; use -p or -d", zap.Strings("ignored", args))
		return nil
	}

	if opts.alpha < 0 || opts.alpha > 1 {
		return errors.New("--alpha must be in range [0, 1]")
	}

	d := &driver{
		ctx:        cmd.Context(),
		w:          w,
		log:        log,
		opts:       opts,
		thresholds: keymath.Thresholds{Alpha: opts.alpha},
	}
	if err := d.configure(cmd.Flags().Changed("exclude"), cmd.Flags().Changed("reference")); err != nil {
		return err
	}

	if opts.archiveDSN != "" {
		db, err := archive.Open(d.ctx, opts.archiveDrv, opts.archiveDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		d.archive = db
	}

	if len(opts.perf) > 0 {
		if opts.hashPerf {
			return d.hashPerformance(opts.perf)
		}
		return d.performance(opts.perf)
	}
	return d.distribution(opts.dist)
}
