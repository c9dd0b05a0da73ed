// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociostat

import (
	"errors"
	"strings"
	"testing"

	"github.com/vfxbench/ocioperf/ociofmt"
)

// res builds a minimal record for aggregation tests. The timing
// sample list is synthesized so the derived fields are consistent.
func res(file, osRel, cpu, version, target, op string, avg float64) ociofmt.Result {
	return ociofmt.Result{
		FileName:         file,
		OSRelease:        osRel,
		CPUModel:         cpu,
		OCIOVersion:      version,
		ConfigVersion:    "2.1",
		SourceColorspace: "ACES2065-1",
		TargetColorspace: target,
		Operation:        op,
		Iters:            10,
		Timings:          []float64{avg},
		MinTime:          avg,
		MaxTime:          avg,
		AvgTime:          avg,
	}
}

func loadedAnalyzer(t *testing.T, results ...ociofmt.Result) *Analyzer {
	t.Helper()
	a := NewAnalyzer(nil)
	if err := a.Load(results); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return a
}

func TestAcesVersion(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"Output - sRGB (ACES 1.0)", "ACES 1.0"},
		{"Output - Rec.709 (aces 1.0 - video)", "ACES 1.0"},
		{"ACES 2.0 - SDR Video", "ACES 2.0"},
		{"sRGB - Display", "Unknown"},
		{"", "Unknown"},
	}
	for _, test := range tests {
		if got := AcesVersion(test.target); got != test.want {
			t.Errorf("AcesVersion(%q) = %q, want %q", test.target, got, test.want)
		}
	}
}

func TestLoadEmpty(t *testing.T) {
	a := NewAnalyzer(nil)
	if err := a.Load(nil); err == nil {
		t.Fatal("Load accepted an empty record set")
	}
	if a.State() != Unloaded {
		t.Errorf("state = %v after failed Load, want unloaded", a.State())
	}
}

func TestStateChain(t *testing.T) {
	a := NewAnalyzer(nil)

	if _, err := a.Summarize(); err == nil {
		t.Error("Summarize succeeded before Load")
	}
	if _, err := a.CompareOSReleases(); err == nil {
		t.Error("CompareOSReleases succeeded before Load")
	}

	a = loadedAnalyzer(t, res("f.txt", "r7", "cpu", "2.4.1", "x (ACES 1.0)", "op", 1))
	if a.State() != Loaded {
		t.Fatalf("state = %v, want loaded", a.State())
	}

	// Comparisons need the summary stage first.
	_, err := a.CompareVersions()
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("CompareVersions err = %v, want *StateError", err)
	}
	if se.Need != Summarized || !strings.Contains(se.Error(), "Summarize") {
		t.Errorf("StateError %q does not name the missing stage", se)
	}

	if _, err := a.Summarize(); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if a.State() != Summarized {
		t.Errorf("state = %v, want summarized", a.State())
	}
	if _, err := a.CompareOSReleases(); err != nil {
		t.Fatalf("CompareOSReleases: %v", err)
	}
	if a.State() != Compared {
		t.Errorf("state = %v, want compared", a.State())
	}
}

func TestLoadInvalidatesSummary(t *testing.T) {
	a := loadedAnalyzer(t, res("f.txt", "r7", "cpu", "2.4.1", "x (ACES 1.0)", "op", 1))
	first, err := a.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Load([]ociofmt.Result{
		res("g.txt", "r9", "cpu", "2.4.1", "x (ACES 2.0)", "op", 2),
	}); err != nil {
		t.Fatal(err)
	}
	if a.State() != Loaded {
		t.Errorf("state = %v after reload, want loaded", a.State())
	}
	second, err := a.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 || first[0].FileName == second[0].FileName {
		t.Errorf("summary not recomputed after reload")
	}
}
