// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyplot draws histograms and box plots of benchmark samples.
//
// The output format is chosen by the extension of the destination
// path, as supported by gonum.org/v1/plot: .pdf, .svg, .png and
// others.
package keyplot

import (
	"image/color"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/lac-dcc/keystat/keymath"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// HistogramBins is the number of bins used by Histograms.
const HistogramBins = 50

// Page sizes.
var (
	histWidth, histHeight = 10 * vg.Inch, 6 * vg.Inch
	boxHeight             = 6 * vg.Inch
	boxMinWidth           = 6 * vg.Inch
	boxPerGroup           = 0.6 * vg.Inch
)

// Histograms draws one translucent histogram per group, overlaid on
// the same axes, and saves it to path. Empty groups are left out.
func Histograms(path, title string, groups []keymath.Group) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Frequency"
	p.Legend.Top = true

	n := 0
	for i, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(g.Values), HistogramBins)
		if err != nil {
			return errors.Wrapf(err, "histogram of %s", g.Name)
		}
		h.FillColor = translucent(plotutil.Color(i))
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add(g.Name, h)
		n++
	}
	if n == 0 {
		return errors.Newf("%s: no samples to plot", path)
	}
	return errors.Wrapf(p.Save(histWidth, histHeight, path), "saving %s", path)
}

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0x80}
}

// BoxPlot draws one box per group, in order, and saves it to path.
// Outliers are hidden and each group's mean is marked. Empty groups
// are left out.
func BoxPlot(path, title, ylabel string, groups []keymath.Group) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel

	w := vg.Points(20)
	var names []string
	var means plotter.XYs
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		x := float64(len(names))
		b, err := plotter.NewBoxPlot(w, x, plotter.Values(g.Values))
		if err != nil {
			return errors.Wrapf(err, "box plot of %s", g.Name)
		}
		b.FillColor = plotutil.Color(len(names))
		b.GlyphStyle.Radius = 0
		p.Add(b)
		names = append(names, g.Name)
		means = append(means, plotter.XY{X: x, Y: keymath.Mean(g.Values)})
	}
	if len(names) == 0 {
		return errors.Newf("%s: no samples to plot", path)
	}

	s, err := plotter.NewScatter(means)
	if err != nil {
		return errors.Wrapf(err, "means of %s", path)
	}
	s.GlyphStyle.Shape = draw.TriangleGlyph{}
	s.GlyphStyle.Color = color.Black
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add("mean", s)
	p.Legend.Top = true

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	width := vg.Length(len(names)) * boxPerGroup
	if width < boxMinWidth {
		width = boxMinWidth
	}
	return errors.Wrapf(p.Save(width, boxHeight, path), "saving %s", path)
}
