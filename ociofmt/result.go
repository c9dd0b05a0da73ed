// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ociofmt reads the text log format produced by the OCIO
// benchmarking tool and converts it to a flat tabular record format.
//
// A log file contains one or more test runs. Each run opens with an
// "OCIO Version:" declaration and carries a config version, a single
// "Processing from X to Y" line naming the source and target
// colorspaces, and any number of timing lines of the form
//
//	<operation>:  For <N> iterations, it took: [<ms>, <ms>, ...] ms
//
// Each timing line becomes one Result. The flat CSV form written by
// WriteCSV is the interchange format consumed by the analysis stage
// and by external tooling; its column set is stable.
package ociofmt

import (
	"github.com/aclements/go-moremath/stats"
)

// A Result is a single timed operation extracted from one test run in
// one benchmark log file. Results are immutable once returned by the
// parser; downstream stages derive new tables instead of mutating
// records in place.
type Result struct {
	// FileName is the base name of the log file the result came
	// from.
	FileName string

	// OSRelease is the OS release tag derived from the file name
	// ("r7", "r9", ...), or "Unknown" if the name does not follow
	// the _r<digits> convention.
	OSRelease string

	// CPUModel is the CPU model line found in the hardware-info
	// dump embedded in the log, or "Unknown".
	CPUModel string

	// OCIOVersion and ConfigVersion identify the library and
	// config declared by the run, or "Unknown" if absent.
	OCIOVersion   string
	ConfigVersion string

	// SourceColorspace and TargetColorspace are taken from the
	// run's "Processing from X to Y" line.
	SourceColorspace string
	TargetColorspace string

	// Operation is the name on the timing line.
	Operation string

	// Iters is the iteration count reported on the timing line.
	Iters int

	// Timings holds the raw per-batch timing samples in
	// milliseconds, in the order they appeared.
	Timings []float64

	// MinTime, MaxTime, and AvgTime are derived from Timings.
	// They are all zero when Timings is empty.
	MinTime float64
	MaxTime float64
	AvgTime float64
}

// computeStats fills in the derived min/max/avg fields from Timings.
func (r *Result) computeStats() {
	if len(r.Timings) == 0 {
		r.MinTime, r.MaxTime, r.AvgTime = 0, 0, 0
		return
	}
	r.MinTime, r.MaxTime = stats.Bounds(r.Timings)
	r.AvgTime = stats.Mean(r.Timings)
}
