// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keytab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/lac-dcc/keystat/keyproc"
	"github.com/olekukonko/tablewriter"
)

// MaxRows is the number of rows above which ToText elides the middle
// of a table unless asked to print it in full.
const MaxRows = 60

// elideKeep is the number of rows kept at each end of an elided table.
const elideKeep = 5

// A Table is a rectangular report with named columns.
type Table struct {
	// Config lists "field: value" lines describing settings shared
	// by every row. They precede the table in text form.
	Config []string

	// Columns are the column headers.
	Columns []string

	// Rows are the table cells. Every row has len(Columns) cells.
	Rows [][]string

	// Warnings is a list of warnings about this table.
	Warnings []error
}

// ToText renders t as an aligned text table. Unless full is set,
// tables with more than MaxRows rows show only their first and last
// rows.
func (t *Table) ToText(w io.Writer, full bool) error {
	for _, line := range t.Config {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	o := tablewriter.NewWriter(w)
	o.SetAutoFormatHeaders(false)
	o.SetAutoWrapText(false)
	o.SetHeader(t.Columns)

	rows := t.Rows
	if !full && len(rows) > MaxRows {
		gap := make([]string, len(t.Columns))
		for i := range gap {
			gap[i] = "..."
		}
		rows = append(append(append([][]string(nil), rows[:elideKeep]...), gap), rows[len(rows)-elideKeep:]...)
	}
	o.AppendBulk(rows)
	o.Render()

	for _, warn := range t.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}

// ToCSV writes t in CSV form: a header row, then every row.
func (t *Table) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	if err := o.Write(t.Columns); err != nil {
		return err
	}
	if err := o.WriteAll(t.Rows); err != nil {
		return err
	}
	return o.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// UTestTable returns the table of pairwise Mann-Whitney U comparisons.
func UTestTable(cmps []keymath.Comparison, th *keymath.Thresholds) *Table {
	t := &Table{Columns: []string{"Hash Function 1", "Hash Function 2", "p-value", "Same Distribution?"}}
	for i := range cmps {
		c := &cmps[i]
		t.Rows = append(t.Rows, []string{c.A, c.B, formatFloat(c.P), formatBool(c.Same(th))})
		// Each unordered pair shares its warnings.
		if c.A < c.B {
			t.Warnings = append(t.Warnings, c.Warnings...)
		}
	}
	return t
}

// GeoMeanTable returns the table of per-name geometric means.
func GeoMeanTable(gms []GeoMean) *Table {
	t := &Table{Columns: []string{"Func Name", "GeoTime", "GeoCollision"}}
	for _, gm := range gms {
		t.Rows = append(t.Rows, []string{gm.Name, formatFloat(gm.Time), formatFloat(gm.Collision)})
		t.Warnings = append(t.Warnings, gm.Warnings...)
	}
	return t
}

// FitTable returns the table of uniformity tests of one distribution
// file.
func FitTable(fits []*keymath.Fit, th *keymath.Thresholds) *Table {
	t := &Table{Columns: []string{"Hash Function", "Skewness", "Skew", "Chi-Test", "p-value", "Uniform?"}}
	for _, f := range fits {
		t.Rows = append(t.Rows, []string{
			f.Name,
			formatFloat(f.Skewness),
			f.SkewClass().String(),
			formatFloat(f.ChiSquare),
			formatFloat(f.P),
			formatBool(f.Uniform(th)),
		})
		for _, w := range f.Warnings {
			t.Warnings = append(t.Warnings, errors.Wrapf(w, "%s", f.Name))
		}
	}
	return t
}

// ValueTable returns a two-column table of per-name values.
func ValueTable(nameCol, valueCol string, vals []NameValue) *Table {
	t := &Table{Columns: []string{nameCol, valueCol}}
	for _, v := range vals {
		t.Rows = append(t.Rows, []string{v.Name, formatFloat(v.Value)})
	}
	return t
}

// SummaryTable returns one row per group of b with the mean of every
// metric. Configuration fields shared by all groups are listed in the
// table's Config lines instead of as columns.
func SummaryTable(b *Builder) *Table {
	t := new(Table)
	configs := b.Configs()
	if len(configs) > 0 {
		for _, f := range keyproc.SingularFields(configs) {
			if v := configs[0].Get(f); v != "" {
				t.Config = append(t.Config, fmt.Sprintf("%s: %s", f.Name, v))
			}
		}
	}
	varying := keyproc.NonSingularFields(configs)
	for _, f := range varying {
		t.Columns = append(t.Columns, f.Name)
	}
	t.Columns = append(t.Columns, b.nameCol, "N")
	for _, m := range b.metrics {
		t.Columns = append(t.Columns, m)
	}

	for _, s := range b.Summaries() {
		var row []string
		for _, f := range varying {
			row = append(row, s.Config.Get(f))
		}
		row = append(row, s.Name, strconv.Itoa(s.N))
		for _, m := range b.metrics {
			row = append(row, formatFloat(s.Means[m]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
