// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package archive

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/lac-dcc/keystat/cmd/keystat/internal/keytab"
	"github.com/lac-dcc/keystat/keymath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openMem(t)
	th := keymath.DefaultThresholds

	run := NewRun("global", "performance")
	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)

	run.AddFits("dist.yaml", []*keymath.Fit{
		keymath.GoodnessOfFit("flat", []float64{1, 2, 3, 4}),
		keymath.GoodnessOfFit("const", []float64{7, 7}),
	})
	run.AddComparisons("Execution Time (s)", keymath.Pairwise([]keymath.Group{
		{Name: "A", Values: []float64{1, 2, 3, 4, 5}},
		{Name: "B", Values: []float64{10, 11, 12, 13, 14}},
	}), &th)
	run.GeoMeans = []keytab.GeoMean{{Name: "A", Time: 1.5, Collision: 1}}
	require.NoError(t, db.Save(ctx, run))

	ids, err := db.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{run.ID}, ids)

	got, err := db.Load(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "global", got.Label)
	assert.Equal(t, "performance", got.Mode)
	assert.True(t, run.Created.Equal(got.Created))

	require.Len(t, got.Fits, 2)
	assert.Equal(t, "dist.yaml", got.Fits[0].File)
	assert.Equal(t, "flat", got.Fits[0].Name)
	assert.Equal(t, 4, got.Fits[0].N)
	assert.Equal(t, 1.0, got.Fits[0].P)
	assert.False(t, got.Fits[0].Fallback)
	assert.Equal(t, "const", got.Fits[1].Name)
	assert.True(t, got.Fits[1].Fallback)
	// NaN skewness is stored as NULL.
	assert.True(t, math.IsNaN(got.Fits[1].Skewness))

	require.Len(t, got.Comparisons, 2)
	assert.Equal(t, "A", got.Comparisons[0].A)
	assert.Equal(t, "B", got.Comparisons[0].B)
	assert.Equal(t, "Execution Time (s)", got.Comparisons[0].Metric)
	assert.InDelta(t, run.Comparisons[0].P, got.Comparisons[0].P, 1e-15)
	assert.False(t, got.Comparisons[0].Same)

	assert.Equal(t, run.GeoMeans[0].Name, got.GeoMeans[0].Name)
	assert.Equal(t, 1.5, got.GeoMeans[0].Time)
}

func TestLoadMissing(t *testing.T) {
	db := openMem(t)
	_, err := db.Load(context.Background(), "nope")
	assert.ErrorContains(t, err, "no archived run nope")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "")
	assert.ErrorContains(t, err, `unknown archive driver "postgres"`)
}
