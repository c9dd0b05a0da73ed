// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociostat

import (
	"testing"

	"github.com/vfxbench/ocioperf/ociofmt"
)

func summarized(t *testing.T, results ...ociofmt.Result) *Analyzer {
	t.Helper()
	a := loadedAnalyzer(t, results...)
	if _, err := a.Summarize(); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCompareOSReleases(t *testing.T) {
	a := summarized(t,
		res("old_r7_.txt", "r7", "xeon", "2.4.1", "x (ACES 1.0)", "op", 100),
		res("new_r9_.txt", "r9", "xeon", "2.4.1", "x (ACES 1.0)", "op", 50),
	)
	comps, err := a.CompareOSReleases()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 1 {
		t.Fatalf("got %d comparisons, want 1", len(comps))
	}
	c := comps[0]
	if c.FasterOS != "r9" || c.SlowerOS != "r7" {
		t.Errorf("faster/slower = %s/%s, want r9/r7", c.FasterOS, c.SlowerOS)
	}
	if c.FasterTime != 50 || c.SlowerTime != 100 {
		t.Errorf("times = %v/%v, want 50/100", c.FasterTime, c.SlowerTime)
	}
	if c.ImprovementPct != 50 {
		t.Errorf("ImprovementPct = %v, want 50", c.ImprovementPct)
	}
	if c.FasterFile != "new_r9_.txt" || c.SlowerFile != "old_r7_.txt" {
		t.Errorf("files = %s/%s", c.FasterFile, c.SlowerFile)
	}
	if c.CPUModel != "xeon" || c.AcesVersion != "ACES 1.0" {
		t.Errorf("holding dims = %s/%s", c.CPUModel, c.AcesVersion)
	}
}

func TestCompareFullPairing(t *testing.T) {
	// Three versions on one system: C(3,2) = 3 pairs, no
	// self-pairs.
	a := summarized(t,
		res("a.txt", "r9", "xeon", "2.3.2", "x (ACES 1.0)", "op", 30),
		res("b.txt", "r9", "xeon", "2.4.0", "x (ACES 1.0)", "op", 20),
		res("c.txt", "r9", "xeon", "2.4.1", "x (ACES 1.0)", "op", 10),
	)
	comps, err := a.CompareVersions()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 3 {
		t.Fatalf("got %d comparisons, want C(3,2) = 3", len(comps))
	}
	for _, c := range comps {
		if c.FasterVersion == c.SlowerVersion {
			t.Errorf("self-pair emitted: %+v", c)
		}
		if c.FasterTime > c.SlowerTime {
			t.Errorf("labels inverted: %+v", c)
		}
	}
}

func TestCompareSortedDescending(t *testing.T) {
	a := summarized(t,
		res("a.txt", "r7", "xeon", "2.4.1", "x (ACES 1.0)", "op", 100),
		res("b.txt", "r9", "xeon", "2.4.1", "x (ACES 1.0)", "op", 90),
		res("c.txt", "r7", "epyc", "2.4.1", "x (ACES 1.0)", "op", 100),
		res("d.txt", "r9", "epyc", "2.4.1", "x (ACES 1.0)", "op", 10),
	)
	comps, err := a.CompareOSReleases()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(comps))
	}
	for i := 1; i < len(comps); i++ {
		if comps[i].ImprovementPct > comps[i-1].ImprovementPct {
			t.Errorf("comparisons not sorted descending: %v before %v",
				comps[i-1].ImprovementPct, comps[i].ImprovementPct)
		}
	}
	if comps[0].CPUModel != "epyc" {
		t.Errorf("best improvement = %s, want the epyc 90%% pair first", comps[0].CPUModel)
	}
}

func TestCompareSkipsNonPositiveMeans(t *testing.T) {
	a := summarized(t,
		res("a.txt", "r7", "xeon", "2.4.1", "x (ACES 1.0)", "op", 0),
		res("b.txt", "r9", "xeon", "2.4.1", "x (ACES 1.0)", "op", 50),
	)
	comps, err := a.CompareOSReleases()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 0 {
		t.Errorf("got %d comparisons involving a zero mean, want 0", len(comps))
	}
}

func TestCompareHoldingDimensionsMustMatch(t *testing.T) {
	// Same pivot spread but different CPUs: nothing comparable.
	a := summarized(t,
		res("a.txt", "r7", "xeon", "2.4.1", "x (ACES 1.0)", "op", 100),
		res("b.txt", "r9", "epyc", "2.4.1", "x (ACES 1.0)", "op", 50),
	)
	comps, err := a.CompareOSReleases()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 0 {
		t.Errorf("got %d comparisons across different CPUs, want 0", len(comps))
	}
}

func TestRankVersions(t *testing.T) {
	a := summarized(t,
		res("a_r7_.txt", "r7", "xeon", "2.4.1", "x (ACES 1.0)", "op", 10),
		res("b_r9_.txt", "r9", "epyc", "2.4.1", "x (ACES 1.0)", "op", 20),
		res("c_r9_.txt", "r9", "xeon", "2.3.2", "x (ACES 1.0)", "op", 40),
		res("d_r9_.txt", "r9", "xeon", "2.3.2", "x (ACES 2.0)", "op", 5),
	)
	rankings, err := a.RankVersions()
	if err != nil {
		t.Fatal(err)
	}
	if len(rankings) != 3 {
		t.Fatalf("got %d rankings, want 3", len(rankings))
	}
	// ACES 1.0 first, fastest version first within the family.
	if rankings[0].OCIOVersion != "2.4.1" || rankings[0].MeanAvgTime != 15 {
		t.Errorf("rankings[0] = %+v, want 2.4.1 mean 15", rankings[0])
	}
	if rankings[0].CPUCount != 2 || rankings[0].OSCount != 2 || rankings[0].FileCount != 2 {
		t.Errorf("rankings[0] distinct counts = %+v", rankings[0])
	}
	if rankings[2].AcesVersion != "ACES 2.0" {
		t.Errorf("rankings[2] = %+v, want the ACES 2.0 group last", rankings[2])
	}
}
