// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ocioreport

import (
	"strings"
	"testing"

	"github.com/vfxbench/ocioperf/ociostat"
)

func TestWriteHTML(t *testing.T) {
	data := HTMLData{
		Title: "OCIO Performance Report",
		Perf: ociostat.PerfSummary{
			TotalResults: 4,
			OCIOVersions: []string{"2.4.1", "2.4.2"},
			AcesVersions: []string{"ACES 1.0"},
			Mean:         9.5,
		},
		Summary: []ociostat.SummaryRow{
			{FileName: "a.txt", OSRelease: "7", OCIOVersion: "2.4.1", AcesVersion: "ACES 1.0", TotalOps: 2, MeanAvgTime: 10.5, MedianAvgTime: 10.5},
		},
		OSComps: []ociostat.OSComparison{
			{CPUModel: "Xeon", AcesVersion: "ACES 1.0", FasterOS: "9", SlowerOS: "7", FasterTime: 5, SlowerTime: 10, ImprovementPct: 50},
		},
		FailedFiles: []string{"broken.txt"},
	}
	var buf strings.Builder
	if err := WriteHTML(&buf, data); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	checkContains(t, out,
		"<title>OCIO Performance Report</title>",
		"2.4.1, 2.4.2",
		"<td class='num'>9.500 ms</td>",
		"<h2>OS Release Comparisons</h2>",
		"<td class='num'>50.0%</td>",
		"<li class='failed'>broken.txt</li>",
	)
	if strings.Contains(out, "Version Rankings") {
		t.Errorf("empty rankings section rendered:\n%s", out)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	data := HTMLData{
		Title: "x",
		Summary: []ociostat.SummaryRow{
			{FileName: "<script>alert(1)</script>"},
		},
	}
	var buf strings.Builder
	if err := WriteHTML(&buf, data); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("file name not escaped in HTML output")
	}
}
