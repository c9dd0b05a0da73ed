// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociostat

import (
	"github.com/aclements/go-moremath/stats"
)

// An OpStat is the per-operation breakdown inside one summary group.
type OpStat struct {
	Mean  float64
	Std   float64 // 0 when Count == 1
	Count int
}

// A SummaryRow aggregates every record sharing one (file, OCIO
// version, ACES family) key. It carries the group's shared metadata
// and descriptive statistics of the per-record average times, plus a
// typed side-table of per-operation statistics.
type SummaryRow struct {
	FileName      string
	OSRelease     string
	CPUModel      string
	OCIOVersion   string
	AcesVersion   string
	ConfigVersion string

	// TotalOps is the number of records in the group; UniqueOps
	// the number of distinct operation names.
	TotalOps  int
	UniqueOps int

	// Statistics of the per-record AvgTime field. Std uses the
	// sample (N−1) formula throughout the package.
	MeanAvgTime   float64
	StdAvgTime    float64
	MedianAvgTime float64

	// Group means of the per-record extremes.
	MeanMinTime float64
	MeanMaxTime float64

	TotalIters int
	MeanIters  float64

	// Ops maps operation name to its breakdown within the group.
	Ops map[string]OpStat
}

type summaryKey struct {
	fileName    string
	ocioVersion string
	acesVersion string
}

// Summarize aggregates the loaded table into one SummaryRow per
// (file, OCIO version, ACES family) group.
//
// The result is cached: calling Summarize again without an
// intervening Load returns the identical table. Group iteration order
// never affects the numbers; rows come out in first-observation order
// so repeated runs over the same input are reproducible.
func (a *Analyzer) Summarize() ([]SummaryRow, error) {
	if a.state < Loaded {
		return nil, &StateError{Op: "summarize", Need: Loaded, Have: a.state}
	}
	if a.summary != nil {
		a.log.Debug("using cached summary")
		return a.summary, nil
	}

	// Group rows, keeping first-observation key order.
	var order []summaryKey
	groups := make(map[summaryKey][]*Row)
	for i := range a.rows {
		r := &a.rows[i]
		key := summaryKey{r.FileName, r.OCIOVersion, r.AcesVersion}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	summary := make([]SummaryRow, 0, len(order))
	for _, key := range order {
		summary = append(summary, summarizeGroup(key, groups[key]))
	}
	a.summary = summary
	if a.state < Summarized {
		a.state = Summarized
	}
	a.log.Info("computed summary", "groups", len(summary))
	return summary, nil
}

func summarizeGroup(key summaryKey, rows []*Row) SummaryRow {
	first := rows[0]
	s := SummaryRow{
		FileName:      key.fileName,
		OCIOVersion:   key.ocioVersion,
		AcesVersion:   key.acesVersion,
		OSRelease:     first.OSRelease,
		CPUModel:      first.CPUModel,
		ConfigVersion: first.ConfigVersion,
		TotalOps:      len(rows),
		Ops:           make(map[string]OpStat),
	}

	avgs := make([]float64, len(rows))
	mins := make([]float64, len(rows))
	maxs := make([]float64, len(rows))
	byOp := make(map[string][]float64)
	for i, r := range rows {
		avgs[i] = r.AvgTime
		mins[i] = r.MinTime
		maxs[i] = r.MaxTime
		s.TotalIters += r.Iters
		byOp[r.Operation] = append(byOp[r.Operation], r.AvgTime)
	}
	s.UniqueOps = len(byOp)
	s.MeanAvgTime = stats.Mean(avgs)
	s.StdAvgTime = sampleStd(avgs)
	s.MedianAvgTime = median(avgs)
	s.MeanMinTime = stats.Mean(mins)
	s.MeanMaxTime = stats.Mean(maxs)
	s.MeanIters = float64(s.TotalIters) / float64(len(rows))

	for op, xs := range byOp {
		s.Ops[op] = OpStat{
			Mean:  stats.Mean(xs),
			Std:   sampleStd(xs),
			Count: len(xs),
		}
	}
	return s
}

// sampleStd is the sample (N−1) standard deviation, defaulting to 0
// for a single observation rather than leaving it undefined.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stats.StdDev(xs)
}

func median(xs []float64) float64 {
	return stats.Sample{Xs: xs}.Quantile(0.5)
}
