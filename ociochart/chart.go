// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ociochart renders analysis results as PNG charts.
package ociochart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vfxbench/ocioperf/ociostat"
)

// A Generator renders charts to PNG files with a shared geometry.
type Generator struct {
	// Width and Height of saved charts.
	Width  vg.Length
	Height vg.Length

	log *slog.Logger
}

// NewGenerator returns a Generator with the default geometry. A nil
// log discards chart progress messages.
func NewGenerator(log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
		log:    log,
	}
}

// DimensionBars renders one bar per group, in the given order.
func (g *Generator) DimensionBars(path, title, yLabel string, groups []ociostat.GroupStat) error {
	if len(groups) == 0 {
		g.log.Warn("no groups to chart", "chart", title)
		return nil
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, grp := range groups {
		values[i] = grp.Mean
		names[i] = ShortCPU(grp.Key)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("bar chart %q: %w", title, err)
	}
	bars.Color = color.RGBA{54, 162, 235, 255}
	p.Add(bars)
	p.NominalX(names...)

	g.log.Info("writing chart", "path", path)
	return p.Save(g.Width, g.Height, path)
}

// TimeHistogram renders the distribution of per-group mean average
// times.
func (g *Generator) TimeHistogram(path string, summary []ociostat.SummaryRow) error {
	if len(summary) == 0 {
		g.log.Warn("no summary rows to chart", "chart", "histogram")
		return nil
	}
	p := plot.New()
	p.Title.Text = "Performance Time Distribution"
	p.X.Label.Text = "Average Time (ms)"
	p.Y.Label.Text = "Frequency"

	values := make(plotter.Values, len(summary))
	for i, s := range summary {
		values[i] = s.MeanAvgTime
	}
	bins := 20
	if len(values) < bins {
		bins = len(values)
	}
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	hist.FillColor = color.RGBA{255, 159, 64, 255}
	p.Add(hist)

	g.log.Info("writing chart", "path", path)
	return p.Save(g.Width, g.Height, path)
}

// An Improvement is one labeled bar in an improvement chart.
type Improvement struct {
	Label string
	Pct   float64
}

// Improvements renders the top improvement percentages as bars,
// colored by magnitude: green above 10%, orange above 5%, red below.
func (g *Generator) Improvements(path, title string, imps []Improvement) error {
	if len(imps) == 0 {
		g.log.Warn("no comparison data to chart", "chart", title)
		return nil
	}
	if len(imps) > 10 {
		imps = imps[:10]
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Performance Improvement (%)"

	names := make([]string, len(imps))
	for i, imp := range imps {
		// One single-value series per bar so each gets its own
		// color and offset.
		bars, err := plotter.NewBarChart(plotter.Values{imp.Pct}, vg.Points(30))
		if err != nil {
			return fmt.Errorf("improvement chart %q: %w", title, err)
		}
		bars.Color = improvementColor(imp.Pct)
		bars.XMin = float64(i)
		p.Add(bars)
		names[i] = ShortCPU(imp.Label)
	}
	p.NominalX(names...)

	g.log.Info("writing chart", "path", path)
	return p.Save(g.Width, g.Height, path)
}

func improvementColor(pct float64) color.Color {
	switch {
	case pct > 10:
		return color.RGBA{75, 181, 67, 255}
	case pct > 5:
		return color.RGBA{255, 159, 64, 255}
	default:
		return color.RGBA{220, 53, 69, 255}
	}
}

// TimePair is one (faster, slower) point in a comparison scatter.
type TimePair struct {
	Faster float64
	Slower float64
}

// ComparisonScatter renders faster-vs-slower times with an
// equal-performance diagonal for reference.
func (g *Generator) ComparisonScatter(path, title string, pairs []TimePair) error {
	if len(pairs) == 0 {
		g.log.Warn("no comparison data to chart", "chart", title)
		return nil
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Faster Time (ms)"
	p.Y.Label.Text = "Slower Time (ms)"

	pts := make(plotter.XYs, len(pairs))
	min, max := pairs[0].Faster, pairs[0].Faster
	for i, pair := range pairs {
		pts[i].X = pair.Faster
		pts[i].Y = pair.Slower
		for _, v := range []float64{pair.Faster, pair.Slower} {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter %q: %w", title, err)
	}
	scatter.Color = color.RGBA{54, 162, 235, 255}

	diag, err := plotter.NewLine(plotter.XYs{{X: min, Y: min}, {X: max, Y: max}})
	if err != nil {
		return fmt.Errorf("scatter %q: %w", title, err)
	}
	diag.Color = color.RGBA{220, 53, 69, 255}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(scatter, diag)
	p.Legend.Add("Equal Performance", diag)
	p.Legend.Top = true

	g.log.Info("writing chart", "path", path)
	return p.Save(g.Width, g.Height, path)
}

// heatGrid adapts an OS-release × OCIO-version mean-time matrix to
// the plotter grid interface. Missing cells are NaN and left
// undrawn.
type heatGrid struct {
	oses     []string
	versions []string
	cells    []float64 // row-major, rows are versions
}

func (h *heatGrid) Dims() (c, r int)   { return len(h.oses), len(h.versions) }
func (h *heatGrid) Z(c, r int) float64 { return h.cells[r*len(h.oses)+c] }
func (h *heatGrid) X(c int) float64    { return float64(c) }
func (h *heatGrid) Y(r int) float64    { return float64(r) }

// Heatmap renders the mean average time for each (OS release, OCIO
// version) cell of the summary.
func (g *Generator) Heatmap(path string, summary []ociostat.SummaryRow) error {
	grid := buildHeatGrid(summary)
	if grid == nil {
		g.log.Warn("no summary rows to chart", "chart", "heatmap")
		return nil
	}
	p := plot.New()
	p.Title.Text = "Mean Average Time by OS Release and OCIO Version"
	p.X.Label.Text = "OS Release"
	p.Y.Label.Text = "OCIO Version"

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min, hm.Max = gridBounds(grid.cells)
	p.Add(hm)

	xticks := make([]plot.Tick, len(grid.oses))
	for i, os := range grid.oses {
		xticks[i] = plot.Tick{Value: float64(i), Label: os}
	}
	yticks := make([]plot.Tick, len(grid.versions))
	for i, v := range grid.versions {
		yticks[i] = plot.Tick{Value: float64(i), Label: v}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)

	g.log.Info("writing chart", "path", path)
	return p.Save(g.Width, g.Height, path)
}

func buildHeatGrid(summary []ociostat.SummaryRow) *heatGrid {
	if len(summary) == 0 {
		return nil
	}
	osSet := make(map[string]struct{})
	verSet := make(map[string]struct{})
	for _, s := range summary {
		osSet[s.OSRelease] = struct{}{}
		verSet[s.OCIOVersion] = struct{}{}
	}
	grid := &heatGrid{oses: setKeys(osSet), versions: setKeys(verSet)}

	type cell struct{ sum, n float64 }
	sums := make(map[[2]string]cell)
	for _, s := range summary {
		k := [2]string{s.OSRelease, s.OCIOVersion}
		c := sums[k]
		c.sum += s.MeanAvgTime
		c.n++
		sums[k] = c
	}
	grid.cells = make([]float64, len(grid.oses)*len(grid.versions))
	for r, v := range grid.versions {
		for c, os := range grid.oses {
			if cl, ok := sums[[2]string{os, v}]; ok {
				grid.cells[r*len(grid.oses)+c] = cl.sum / cl.n
			} else {
				grid.cells[r*len(grid.oses)+c] = math.NaN()
			}
		}
	}
	return grid
}

func gridBounds(cells []float64) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range cells {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cpuNoise strips vendor decorations from CPU model names.
var cpuNoise = strings.NewReplacer(
	"Intel(R) ", "",
	"(R)", "",
	"Core(TM) ", "",
	"(TM)", "",
	"CPU ", "",
)

// ShortCPU shortens a CPU model name for axis labels: vendor
// decorations and the clock-frequency suffix go, and the rest is
// capped at 20 runes.
func ShortCPU(model string) string {
	if model == "" || model == "Unknown" {
		return "Unknown"
	}
	short := cpuNoise.Replace(model)
	if i := strings.Index(short, " @"); i >= 0 {
		short = short[:i]
	}
	short = strings.TrimSpace(short)
	if runes := []rune(short); len(runes) > 20 {
		short = string(runes[:17]) + "..."
	}
	return short
}
