// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociostat

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A PerfSummary is the table-wide overview used at the top of
// reports.
type PerfSummary struct {
	TotalResults     int
	UniqueFiles      int
	UniqueCPUs       int
	UniqueOSReleases int
	OCIOVersions     []string // sorted
	AcesVersions     []string // sorted

	// Statistics of the per-record AvgTime field.
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// PerformanceSummary computes the table-wide overview. It requires
// loaded data only.
func (a *Analyzer) PerformanceSummary() (PerfSummary, error) {
	if a.state < Loaded {
		return PerfSummary{}, &StateError{Op: "summarize performance", Need: Loaded, Have: a.state}
	}
	files := make(map[string]struct{})
	cpus := make(map[string]struct{})
	oses := make(map[string]struct{})
	versions := make(map[string]struct{})
	families := make(map[string]struct{})
	avgs := make([]float64, len(a.rows))
	for i := range a.rows {
		r := &a.rows[i]
		files[r.FileName] = struct{}{}
		cpus[r.CPUModel] = struct{}{}
		oses[r.OSRelease] = struct{}{}
		versions[r.OCIOVersion] = struct{}{}
		families[r.AcesVersion] = struct{}{}
		avgs[i] = r.AvgTime
	}
	min, max := stats.Bounds(avgs)
	return PerfSummary{
		TotalResults:     len(a.rows),
		UniqueFiles:      len(files),
		UniqueCPUs:       len(cpus),
		UniqueOSReleases: len(oses),
		OCIOVersions:     sortedKeys(versions),
		AcesVersions:     sortedKeys(families),
		Mean:             stats.Mean(avgs),
		Median:           median(avgs),
		Std:              sampleStd(avgs),
		Min:              min,
		Max:              max,
	}, nil
}

// An Outlier is a record whose average time deviates from the table
// mean by more than a z-score threshold.
type Outlier struct {
	Row
	ZScore float64
}

// Outliers finds records whose AvgTime z-score exceeds threshold,
// sorted by descending z-score. A zero-variance table has no
// outliers by definition.
func (a *Analyzer) Outliers(threshold float64) ([]Outlier, error) {
	if a.state < Loaded {
		return nil, &StateError{Op: "find outliers", Need: Loaded, Have: a.state}
	}
	avgs := make([]float64, len(a.rows))
	for i := range a.rows {
		avgs[i] = a.rows[i].AvgTime
	}
	mean := stats.Mean(avgs)
	std := sampleStd(avgs)
	if std == 0 {
		a.log.Warn("avg_time has zero variance, no outliers detectable")
		return nil, nil
	}
	var outliers []Outlier
	for i := range a.rows {
		z := math.Abs((a.rows[i].AvgTime - mean) / std)
		if z > threshold {
			outliers = append(outliers, Outlier{Row: a.rows[i], ZScore: z})
		}
	}
	sort.SliceStable(outliers, func(i, j int) bool {
		return outliers[i].ZScore > outliers[j].ZScore
	})
	return outliers, nil
}

// percentilePoints are the quantiles reported by Percentiles, in
// report order.
var percentilePoints = []struct {
	Label string
	Q     float64
}{
	{"p5", 0.05}, {"p10", 0.10}, {"p25", 0.25}, {"p50", 0.50},
	{"p75", 0.75}, {"p90", 0.90}, {"p95", 0.95}, {"p99", 0.99},
}

// A Percentile is one labeled quantile of the AvgTime distribution.
type Percentile struct {
	Label string
	Value float64
}

// Percentiles returns the AvgTime quantiles from p5 through p99.
func (a *Analyzer) Percentiles() ([]Percentile, error) {
	if a.state < Loaded {
		return nil, &StateError{Op: "compute percentiles", Need: Loaded, Have: a.state}
	}
	avgs := make([]float64, len(a.rows))
	for i := range a.rows {
		avgs[i] = a.rows[i].AvgTime
	}
	sample := stats.Sample{Xs: avgs}
	out := make([]Percentile, len(percentilePoints))
	for i, p := range percentilePoints {
		out[i] = Percentile{Label: p.Label, Value: sample.Quantile(p.Q)}
	}
	return out, nil
}

// A GroupStat describes the AvgTime distribution of one group along a
// dimension.
type GroupStat struct {
	Key    string
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64

	// CV is the coefficient of variation, in percent.
	CV float64

	// RelativePerf is the group mean as a percentage of the
	// table-wide mean.
	RelativePerf float64
}

// CompareGroups computes per-group descriptive statistics along d,
// sorted by ascending mean so the fastest group comes first.
func (a *Analyzer) CompareGroups(d Dimension) ([]GroupStat, error) {
	if a.state < Loaded {
		return nil, &StateError{Op: fmt.Sprintf("compare groups by %s", d), Need: Loaded, Have: a.state}
	}
	groups := make(map[string][]float64)
	var total float64
	for i := range a.rows {
		r := &a.rows[i]
		groups[d.of(r)] = append(groups[d.of(r)], r.AvgTime)
		total += r.AvgTime
	}
	overallMean := total / float64(len(a.rows))

	out := make([]GroupStat, 0, len(groups))
	for key, xs := range groups {
		min, max := stats.Bounds(xs)
		g := GroupStat{
			Key:    key,
			Count:  len(xs),
			Mean:   stats.Mean(xs),
			Median: median(xs),
			Std:    sampleStd(xs),
			Min:    min,
			Max:    max,
		}
		if g.Mean != 0 {
			g.CV = g.Std / g.Mean * 100
		}
		if overallMean != 0 {
			g.RelativePerf = g.Mean / overallMean * 100
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
