// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive stores analysis results in a SQL database so runs
// can be compared later.
package archive

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keytab"
	"github.com/lac-dcc/keystat/keymath"
	_ "github.com/mattn/go-sqlite3"
)

// Drivers lists the supported database drivers.
var Drivers = []string{"sqlite3", "mysql"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		label VARCHAR(255) NOT NULL,
		mode VARCHAR(32) NOT NULL,
		created BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fits (
		run_id VARCHAR(36) NOT NULL,
		seq INTEGER NOT NULL,
		file VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		n INTEGER NOT NULL,
		skewness DOUBLE,
		chi_square DOUBLE,
		p_value DOUBLE,
		fallback BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comparisons (
		run_id VARCHAR(36) NOT NULL,
		seq INTEGER NOT NULL,
		metric VARCHAR(255) NOT NULL,
		name1 VARCHAR(255) NOT NULL,
		name2 VARCHAR(255) NOT NULL,
		p_value DOUBLE,
		same BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geomeans (
		run_id VARCHAR(36) NOT NULL,
		seq INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		geo_time DOUBLE,
		geo_collision DOUBLE
	)`,
}

// A DB is an open results archive.
type DB struct {
	sql    *sql.DB
	driver string
}

// Open opens the archive at dsn using driver, creating its tables if
// they do not exist.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	known := false
	for _, d := range Drivers {
		known = known || d == driver
	}
	if !known {
		return nil, errors.Newf("unknown archive driver %q (want sqlite3 or mysql)", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s archive", driver)
	}
	if driver == "sqlite3" {
		// An in-memory database exists per connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connecting to %s archive", driver)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "creating archive tables")
		}
	}
	return &DB{sql: db, driver: driver}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.sql.Close()
}

// A Run is the set of results of one keystat invocation.
type Run struct {
	ID      string
	Label   string
	Mode    string
	Created time.Time

	Fits        []Fit
	Comparisons []Comparison
	GeoMeans    []keytab.GeoMean
}

// A Fit is a uniformity test of one sample set in one file.
type Fit struct {
	File string
	keymath.Fit
}

// A Comparison is a Mann-Whitney U test of one metric.
type Comparison struct {
	Metric string
	Same   bool
	keymath.Comparison
}

// NewRun returns an empty Run with a fresh ID.
func NewRun(label, mode string) *Run {
	return &Run{
		ID:      uuid.NewString(),
		Label:   label,
		Mode:    mode,
		Created: time.Now().Truncate(time.Second),
	}
}

// AddFits records the fits of the sample sets of file.
func (r *Run) AddFits(file string, fits []*keymath.Fit) {
	for _, f := range fits {
		r.Fits = append(r.Fits, Fit{File: file, Fit: *f})
	}
}

// AddComparisons records the comparisons of metric.
func (r *Run) AddComparisons(metric string, cmps []keymath.Comparison, th *keymath.Thresholds) {
	for i := range cmps {
		r.Comparisons = append(r.Comparisons, Comparison{Metric: metric, Same: cmps[i].Same(th), Comparison: cmps[i]})
	}
}

// nullFloat maps NaN, which neither driver stores, to NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Save stores r in a single transaction.
func (db *DB) Save(ctx context.Context, r *Run) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting archive transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, label, mode, created) VALUES (?, ?, ?, ?)`,
		r.ID, r.Label, r.Mode, r.Created.Unix()); err != nil {
		return errors.Wrapf(err, "archiving run %s", r.ID)
	}
	for i, f := range r.Fits {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fits (run_id, seq, file, name, n, skewness, chi_square, p_value, fallback) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, f.File, f.Name, f.N, nullFloat(f.Skewness), nullFloat(f.ChiSquare), nullFloat(f.P), f.Fallback); err != nil {
			return errors.Wrapf(err, "archiving fit of %s", f.Name)
		}
	}
	for i, c := range r.Comparisons {
		if _, err := tx.ExecContext(ctx, `INSERT INTO comparisons (run_id, seq, metric, name1, name2, p_value, same) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, c.Metric, c.A, c.B, nullFloat(c.P), c.Same); err != nil {
			return errors.Wrapf(err, "archiving comparison of %s and %s", c.A, c.B)
		}
	}
	for i, g := range r.GeoMeans {
		if _, err := tx.ExecContext(ctx, `INSERT INTO geomeans (run_id, seq, name, geo_time, geo_collision) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, g.Name, nullFloat(g.Time), nullFloat(g.Collision)); err != nil {
			return errors.Wrapf(err, "archiving geomean of %s", g.Name)
		}
	}
	return errors.Wrap(tx.Commit(), "committing archive transaction")
}

// Runs returns the IDs of all archived runs, oldest first.
func (db *DB) Runs(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT id FROM runs ORDER BY created, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Load reads back the run with the given ID.
func (db *DB) Load(ctx context.Context, id string) (*Run, error) {
	r := &Run{ID: id}
	var created int64
	err := db.sql.QueryRowContext(ctx, `SELECT label, mode, created FROM runs WHERE id = ?`, id).
		Scan(&r.Label, &r.Mode, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf("no archived run %s", id)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading run %s", id)
	}
	r.Created = time.Unix(created, 0)

	if err := db.query(ctx, `SELECT file, name, n, skewness, chi_square, p_value, fallback FROM fits WHERE run_id = ? ORDER BY seq`, id, func(rows *sql.Rows) error {
		var f Fit
		var skew, chi, p sql.NullFloat64
		if err := rows.Scan(&f.File, &f.Name, &f.N, &skew, &chi, &p, &f.Fallback); err != nil {
			return err
		}
		f.Skewness, f.ChiSquare, f.P = fromNull(skew), fromNull(chi), fromNull(p)
		r.Fits = append(r.Fits, f)
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "loading fits of run %s", id)
	}

	if err := db.query(ctx, `SELECT metric, name1, name2, p_value, same FROM comparisons WHERE run_id = ? ORDER BY seq`, id, func(rows *sql.Rows) error {
		var c Comparison
		var p sql.NullFloat64
		if err := rows.Scan(&c.Metric, &c.A, &c.B, &p, &c.Same); err != nil {
			return err
		}
		c.P = fromNull(p)
		r.Comparisons = append(r.Comparisons, c)
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "loading comparisons of run %s", id)
	}

	if err := db.query(ctx, `SELECT name, geo_time, geo_collision FROM geomeans WHERE run_id = ? ORDER BY seq`, id, func(rows *sql.Rows) error {
		var g keytab.GeoMean
		var gt, gc sql.NullFloat64
		if err := rows.Scan(&g.Name, &gt, &gc); err != nil {
			return err
		}
		g.Time, g.Collision = fromNull(gt), fromNull(gc)
		r.GeoMeans = append(r.GeoMeans, g)
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "loading geomeans of run %s", id)
	}
	return r, nil
}

func (db *DB) query(ctx context.Context, q, id string, scan func(*sql.Rows) error) error {
	rows, err := db.sql.QueryContext(ctx, q, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
