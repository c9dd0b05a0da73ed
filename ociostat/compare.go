// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociostat

import (
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// An OSComparison is one pairwise performance comparison between two
// OS releases measured on the same CPU model and ACES family.
type OSComparison struct {
	CPUModel    string
	AcesVersion string
	OCIOVersion string

	FasterOS   string
	SlowerOS   string
	FasterTime float64
	SlowerTime float64

	// ImprovementPct = (slower − faster) / slower × 100. It is
	// non-negative by the faster/slower labeling.
	ImprovementPct float64

	FasterFile string
	SlowerFile string
}

// A VersionComparison is one pairwise comparison between two OCIO
// versions measured on the same CPU model, OS release, and ACES
// family.
type VersionComparison struct {
	CPUModel    string
	OSRelease   string
	AcesVersion string

	FasterVersion string
	SlowerVersion string
	FasterTime    float64
	SlowerTime    float64

	ImprovementPct float64

	FasterFile string
	SlowerFile string
}

// A VersionRanking is the coarse, non-pairwise summary of one (OCIO
// version, ACES family) group across all configurations.
type VersionRanking struct {
	OCIOVersion string
	AcesVersion string

	MeanAvgTime float64

	// Distinct CPU models, OS releases, and files contributing to
	// the group.
	CPUCount  int
	OSCount   int
	FileCount int
}

// pivotCell is the aggregate of all rows sharing (holding key, pivot
// value): the mean time used for comparison and representative
// metadata from the first row observed.
type pivotCell struct {
	pivot   string
	mean    float64
	file    string
	version string
}

// CompareOSReleases finds every pair of OS releases measured on the
// same CPU model and ACES family and labels each pair by which side
// was faster. k releases in one group yield C(k,2) comparisons. Pairs
// where either side's mean time is not strictly positive are skipped.
//
// The result is sorted by descending improvement percentage; callers
// rely on row 0 being the best improvement found. An empty result is
// a valid outcome, not an error.
func (a *Analyzer) CompareOSReleases() ([]OSComparison, error) {
	cells, err := a.pivotCells("compare OS releases", ByOSRelease, ByCPUModel, ByAcesVersion)
	if err != nil {
		return nil, err
	}
	var comps []OSComparison
	forEachPair(cells, func(hold []string, fast, slow *pivotCell, pct float64) {
		comps = append(comps, OSComparison{
			CPUModel:       hold[0],
			AcesVersion:    hold[1],
			OCIOVersion:    fast.version,
			FasterOS:       fast.pivot,
			SlowerOS:       slow.pivot,
			FasterTime:     fast.mean,
			SlowerTime:     slow.mean,
			ImprovementPct: pct,
			FasterFile:     fast.file,
			SlowerFile:     slow.file,
		})
	})
	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].ImprovementPct > comps[j].ImprovementPct
	})
	a.markCompared()
	a.log.Info("found OS release comparisons", "pairs", len(comps))
	return comps, nil
}

// CompareVersions is the same pairing algorithm with OCIO version as
// the pivot, holding CPU model, OS release, and ACES family constant.
func (a *Analyzer) CompareVersions() ([]VersionComparison, error) {
	cells, err := a.pivotCells("compare versions", ByOCIOVersion, ByCPUModel, ByOSRelease, ByAcesVersion)
	if err != nil {
		return nil, err
	}
	var comps []VersionComparison
	forEachPair(cells, func(hold []string, fast, slow *pivotCell, pct float64) {
		comps = append(comps, VersionComparison{
			CPUModel:       hold[0],
			OSRelease:      hold[1],
			AcesVersion:    hold[2],
			FasterVersion:  fast.pivot,
			SlowerVersion:  slow.pivot,
			FasterTime:     fast.mean,
			SlowerTime:     slow.mean,
			ImprovementPct: pct,
			FasterFile:     fast.file,
			SlowerFile:     slow.file,
		})
	})
	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].ImprovementPct > comps[j].ImprovementPct
	})
	a.markCompared()
	a.log.Info("found version comparisons", "pairs", len(comps))
	return comps, nil
}

// RankVersions groups solely by (OCIO version, ACES family) and
// reports group-level means, with no pairwise comparison. The result
// is sorted by ACES family, then ascending mean time, so the fastest
// version of each family ranks first.
func (a *Analyzer) RankVersions() ([]VersionRanking, error) {
	if a.state < Summarized {
		return nil, &StateError{Op: "rank versions", Need: Summarized, Have: a.state}
	}
	type key struct{ version, aces string }
	type group struct {
		avgs  []float64
		cpus  map[string]struct{}
		oses  map[string]struct{}
		files map[string]struct{}
	}
	groups := make(map[key]*group)
	var order []key
	for i := range a.rows {
		r := &a.rows[i]
		k := key{r.OCIOVersion, r.AcesVersion}
		g := groups[k]
		if g == nil {
			g = &group{
				cpus:  make(map[string]struct{}),
				oses:  make(map[string]struct{}),
				files: make(map[string]struct{}),
			}
			groups[k] = g
			order = append(order, k)
		}
		g.avgs = append(g.avgs, r.AvgTime)
		g.cpus[r.CPUModel] = struct{}{}
		g.oses[r.OSRelease] = struct{}{}
		g.files[r.FileName] = struct{}{}
	}

	rankings := make([]VersionRanking, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rankings = append(rankings, VersionRanking{
			OCIOVersion: k.version,
			AcesVersion: k.aces,
			MeanAvgTime: stats.Mean(g.avgs),
			CPUCount:    len(g.cpus),
			OSCount:     len(g.oses),
			FileCount:   len(g.files),
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].AcesVersion != rankings[j].AcesVersion {
			return rankings[i].AcesVersion < rankings[j].AcesVersion
		}
		return rankings[i].MeanAvgTime < rankings[j].MeanAvgTime
	})
	a.markCompared()
	return rankings, nil
}

// pivotCells groups the table by the holding dimensions and, within
// each group, aggregates rows by pivot value. It returns one cell
// slice per holding group, pivot values in first-observation order.
func (a *Analyzer) pivotCells(op string, pivot Dimension, holding ...Dimension) (map[string][]*pivotCell, error) {
	if a.state < Summarized {
		return nil, &StateError{Op: op, Need: Summarized, Have: a.state}
	}

	type cellAgg struct {
		cell *pivotCell
		avgs []float64
	}
	// holdKey is the holding values joined with a separator that
	// cannot occur inside them; cells within one hold group stay
	// ordered by first observation.
	cells := make(map[string][]*pivotCell)
	aggs := make(map[string]map[string]*cellAgg)
	for i := range a.rows {
		r := &a.rows[i]
		hk := joinKey(holding, r)
		pv := pivot.of(r)
		byPivot := aggs[hk]
		if byPivot == nil {
			byPivot = make(map[string]*cellAgg)
			aggs[hk] = byPivot
		}
		agg := byPivot[pv]
		if agg == nil {
			agg = &cellAgg{cell: &pivotCell{
				pivot:   pv,
				file:    r.FileName,
				version: r.OCIOVersion,
			}}
			byPivot[pv] = agg
			cells[hk] = append(cells[hk], agg.cell)
		}
		agg.avgs = append(agg.avgs, r.AvgTime)
	}
	for _, byPivot := range aggs {
		for _, agg := range byPivot {
			agg.cell.mean = stats.Mean(agg.avgs)
		}
	}
	return cells, nil
}

// forEachPair emits every unordered pair of pivot cells within each
// holding group, labeled faster/slower. Pairs with a non-positive
// mean on either side are skipped: no meaningful ratio exists.
func forEachPair(cells map[string][]*pivotCell, emit func(hold []string, fast, slow *pivotCell, pct float64)) {
	keys := make([]string, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, hk := range keys {
		group := cells[hk]
		if len(group) < 2 {
			continue
		}
		hold := splitKey(hk)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				x, y := group[i], group[j]
				if x.mean <= 0 || y.mean <= 0 {
					continue
				}
				fast, slow := x, y
				if slow.mean < fast.mean {
					fast, slow = slow, fast
				}
				pct := (slow.mean - fast.mean) / slow.mean * 100
				emit(hold, fast, slow, pct)
			}
		}
	}
}

// keySep separates holding-dimension values inside a composite group
// key. \x1f is the ASCII unit separator and never appears in log
// metadata.
const keySep = "\x1f"

func joinKey(dims []Dimension, r *Row) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = d.of(r)
	}
	return strings.Join(parts, keySep)
}

func splitKey(k string) []string {
	return strings.Split(k, keySep)
}

func (a *Analyzer) markCompared() {
	if a.state < Compared {
		a.state = Compared
	}
}
