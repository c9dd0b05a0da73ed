// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ociostat aggregates OCIO benchmark records and derives
// performance comparisons from them.
//
// An Analyzer moves through a strict readiness chain: records are
// loaded, then summarized, then compared. Each stage checks its
// prerequisite explicitly and reports which stage is missing rather
// than failing obscurely downstream.
package ociostat

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vfxbench/ocioperf/ociofmt"
)

// State is the readiness of an Analyzer.
type State int

const (
	Unloaded State = iota
	Loaded
	Summarized
	Compared
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Summarized:
		return "summarized"
	case Compared:
		return "compared"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A StateError reports an operation invoked before its prerequisite
// stage has run.
type StateError struct {
	Op   string // the operation that was attempted
	Need State  // the minimum state it requires
	Have State  // the Analyzer's actual state
}

func (e *StateError) Error() string {
	hint := "call Load first"
	if e.Need == Summarized {
		hint = "call Summarize first"
	}
	return fmt.Sprintf("cannot %s: analyzer is %s, needs %s (%s)", e.Op, e.Have, e.Need, hint)
}

// A Row is one MeasurementRecord augmented with its derived ACES
// family. Rows are the unit of grouping for every aggregation.
type Row struct {
	ociofmt.Result

	// AcesVersion is the transform family of TargetColorspace.
	AcesVersion string
}

// DefaultMaxPlausibleTime is the per-operation timing bound, in
// milliseconds, above which values are flagged as implausible.
const DefaultMaxPlausibleTime = 100000

// An Analyzer holds a loaded record table and computes summaries and
// comparisons over it. The zero value is not usable; call NewAnalyzer.
type Analyzer struct {
	log *slog.Logger

	// MaxPlausibleTime overrides DefaultMaxPlausibleTime when
	// positive. Values above it are warned about, never rejected.
	MaxPlausibleTime float64

	state   State
	rows    []Row
	summary []SummaryRow
}

// NewAnalyzer returns an Analyzer that reports diagnostics to log.
// A nil log disables diagnostics.
func NewAnalyzer(log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{log: log}
}

// State returns the Analyzer's position in the readiness chain.
func (a *Analyzer) State() State { return a.state }

// Rows returns the loaded table. The caller must not mutate it.
func (a *Analyzer) Rows() []Row { return a.rows }

// Load installs results as the analyzer's table, classifying each
// record's ACES family as it goes. Any previously computed summary is
// invalidated.
//
// Load fails on an empty record set. Implausible values are
// downgraded to warnings.
func (a *Analyzer) Load(results []ociofmt.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no records to load")
	}
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{Result: r, AcesVersion: AcesVersion(r.TargetColorspace)}
	}
	a.rows = rows
	a.summary = nil
	a.state = Loaded
	a.validate()
	a.log.Info("loaded records", "rows", len(rows))
	return nil
}

// validate checks the quality of the loaded table. Nothing here is
// fatal; a table of suspect values is still analyzable, the user just
// needs to know.
func (a *Analyzer) validate() {
	bound := a.MaxPlausibleTime
	if bound <= 0 {
		bound = DefaultMaxPlausibleTime
	}
	var negative, large int
	unknown := map[string]int{}
	for i := range a.rows {
		r := &a.rows[i]
		if r.MinTime < 0 || r.AvgTime < 0 {
			negative++
		}
		if r.MaxTime > bound {
			large++
		}
		for field, v := range map[string]string{
			"cpu_model":    r.CPUModel,
			"os_release":   r.OSRelease,
			"ocio_version": r.OCIOVersion,
		} {
			if v == "" || v == "Unknown" {
				unknown[field]++
			}
		}
	}
	if negative > 0 {
		a.log.Warn("records with negative timing values", "count", negative)
	}
	if large > 0 {
		a.log.Warn("records with implausibly large timings", "count", large, "bound_ms", bound)
	}
	for field, n := range unknown {
		pct := float64(n) / float64(len(a.rows)) * 100
		if pct > 10 {
			a.log.Warn("column has a high share of unknown values",
				"column", field, "pct", fmt.Sprintf("%.1f", pct))
		}
	}
}

// AcesVersion classifies a target colorspace string into its
// transform family. The classification is total: every string maps to
// exactly one family, with "Unknown" as the catch-all bucket.
func AcesVersion(target string) string {
	t := strings.ToLower(target)
	switch {
	case strings.Contains(t, "aces 1"):
		return "ACES 1.0"
	case strings.Contains(t, "aces 2"):
		return "ACES 2.0"
	}
	return "Unknown"
}

// A Dimension is a categorical axis of the record table.
type Dimension int

const (
	ByOSRelease Dimension = iota
	ByCPUModel
	ByOCIOVersion
	ByAcesVersion
	ByOperation
)

func (d Dimension) String() string {
	switch d {
	case ByOSRelease:
		return "os_release"
	case ByCPUModel:
		return "cpu_model"
	case ByOCIOVersion:
		return "ocio_version"
	case ByAcesVersion:
		return "aces_version"
	case ByOperation:
		return "operation"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// of projects a row onto the dimension.
func (d Dimension) of(r *Row) string {
	switch d {
	case ByOSRelease:
		return r.OSRelease
	case ByCPUModel:
		return r.CPUModel
	case ByOCIOVersion:
		return r.OCIOVersion
	case ByAcesVersion:
		return r.AcesVersion
	case ByOperation:
		return r.Operation
	}
	return ""
}
