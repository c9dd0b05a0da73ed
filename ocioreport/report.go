// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ocioreport renders analysis results as text and HTML
// reports.
package ocioreport

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/vfxbench/ocioperf/internal/texttab"
	"github.com/vfxbench/ocioperf/ociostat"
)

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// Summary writes the top-level analysis report: overall statistics,
// the distribution of average times, and the fastest summary groups.
// pcts may be nil.
func Summary(w io.Writer, summary []ociostat.SummaryRow, ps ociostat.PerfSummary, pcts []ociostat.Percentile) error {
	header(w, "OCIO Performance Analysis Summary Report")

	section(w, "OVERALL STATISTICS")
	fmt.Fprintf(w, "Total test results: %d\n", ps.TotalResults)
	fmt.Fprintf(w, "Unique files analyzed: %d\n", ps.UniqueFiles)
	fmt.Fprintf(w, "Unique CPU models: %d\n", ps.UniqueCPUs)
	fmt.Fprintf(w, "Unique OS releases: %d\n", ps.UniqueOSReleases)
	fmt.Fprintf(w, "OCIO versions tested: %s\n", strings.Join(ps.OCIOVersions, ", "))
	fmt.Fprintf(w, "ACES versions: %s\n\n", strings.Join(ps.AcesVersions, ", "))

	section(w, "PERFORMANCE STATISTICS")
	fmt.Fprintf(w, "Mean execution time: %.3f ms\n", ps.Mean)
	fmt.Fprintf(w, "Median execution time: %.3f ms\n", ps.Median)
	fmt.Fprintf(w, "Standard deviation: %.3f ms\n", ps.Std)
	fmt.Fprintf(w, "Minimum time: %.3f ms\n", ps.Min)
	fmt.Fprintf(w, "Maximum time: %.3f ms\n\n", ps.Max)

	if len(pcts) > 0 {
		section(w, "PERCENTILES")
		var tab texttab.Table
		tab.SetAlign(1, texttab.Right)
		for _, p := range pcts {
			tab.Row(p.Label, fmt.Sprintf("%.3f ms", p.Value))
		}
		if err := tab.Format(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	section(w, "TOP PERFORMING SYSTEMS")
	top := append([]ociostat.SummaryRow(nil), summary...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].MeanAvgTime < top[j].MeanAvgTime })
	if len(top) > 5 {
		top = top[:5]
	}
	for i, s := range top {
		fmt.Fprintf(w, "%d. %s\n", i+1, s.FileName)
		fmt.Fprintf(w, "   CPU: %s\n", Truncate(s.CPUModel, 60))
		fmt.Fprintf(w, "   OS: %s\n", s.OSRelease)
		fmt.Fprintf(w, "   OCIO: %s\n", s.OCIOVersion)
		fmt.Fprintf(w, "   ACES: %s\n", s.AcesVersion)
		fmt.Fprintf(w, "   Avg Time: %.3f ms\n\n", s.MeanAvgTime)
	}
	return nil
}

// OSComparisons writes the OS-release comparison report. comps must
// already be sorted by descending improvement.
func OSComparisons(w io.Writer, comps []ociostat.OSComparison) error {
	header(w, "CPU/OS Performance Comparison Report")
	if len(comps) == 0 {
		fmt.Fprintln(w, "No comparison data available.")
		return nil
	}
	fmt.Fprintf(w, "Total comparisons found: %d\n\n", len(comps))

	section(w, "TOP PERFORMANCE IMPROVEMENTS")
	for i, c := range comps {
		if i == 10 {
			break
		}
		fmt.Fprintf(w, "%d. Improvement: %.1f%%\n", i+1, c.ImprovementPct)
		fmt.Fprintf(w, "   CPU: %s\n", Truncate(c.CPUModel, 50))
		fmt.Fprintf(w, "   ACES: %s\n", c.AcesVersion)
		fmt.Fprintf(w, "   Faster: %.3f ms (OS %s, %s)\n", c.FasterTime, c.FasterOS, c.FasterFile)
		fmt.Fprintf(w, "   Slower: %.3f ms (OS %s, %s)\n\n", c.SlowerTime, c.SlowerOS, c.SlowerFile)
	}
	improvementStats(w, osImprovements(comps))
	return nil
}

// VersionComparisons writes the OCIO-version comparison report.
func VersionComparisons(w io.Writer, comps []ociostat.VersionComparison) error {
	header(w, "OCIO Version Performance Comparison Report")
	if len(comps) == 0 {
		fmt.Fprintln(w, "No comparison data available.")
		return nil
	}
	fmt.Fprintf(w, "Total comparisons found: %d\n\n", len(comps))

	section(w, "TOP PERFORMANCE IMPROVEMENTS")
	for i, c := range comps {
		if i == 10 {
			break
		}
		fmt.Fprintf(w, "%d. Improvement: %.1f%%\n", i+1, c.ImprovementPct)
		fmt.Fprintf(w, "   CPU: %s\n", Truncate(c.CPUModel, 50))
		fmt.Fprintf(w, "   OS: %s, ACES: %s\n", c.OSRelease, c.AcesVersion)
		fmt.Fprintf(w, "   Faster: %.3f ms (OCIO %s)\n", c.FasterTime, c.FasterVersion)
		fmt.Fprintf(w, "   Slower: %.3f ms (OCIO %s)\n\n", c.SlowerTime, c.SlowerVersion)
	}
	var pcts []float64
	for _, c := range comps {
		pcts = append(pcts, c.ImprovementPct)
	}
	improvementStats(w, pcts)
	return nil
}

// Rankings writes the coarse version ranking table.
func Rankings(w io.Writer, rankings []ociostat.VersionRanking) error {
	header(w, "OCIO Version Rankings")
	if len(rankings) == 0 {
		fmt.Fprintln(w, "No ranking data available.")
		return nil
	}
	var tab texttab.Table
	tab.SetAlign(2, texttab.Right)
	tab.SetAlign(3, texttab.Right)
	tab.SetAlign(4, texttab.Right)
	tab.SetAlign(5, texttab.Right)
	tab.Row("ocio version", "aces", "mean ms", "cpus", "oses", "files")
	for _, r := range rankings {
		tab.Row(r.OCIOVersion, r.AcesVersion,
			fmt.Sprintf("%.3f", r.MeanAvgTime),
			fmt.Sprintf("%d", r.CPUCount),
			fmt.Sprintf("%d", r.OSCount),
			fmt.Sprintf("%d", r.FileCount))
	}
	return tab.Format(w)
}

// Findings writes the key-findings report combining both comparison
// tables with the summary.
func Findings(w io.Writer, osComps []ociostat.OSComparison, verComps []ociostat.VersionComparison, summary []ociostat.SummaryRow) error {
	header(w, "OCIO Performance Analysis - Detailed Findings")

	section(w, "KEY FINDINGS")
	var findings []string
	if len(osComps) > 0 {
		best := osComps[0]
		findings = append(findings, fmt.Sprintf(
			"Best CPU/OS performance improvement: %.1f%% (OS %s vs %s)",
			best.ImprovementPct, best.FasterOS, best.SlowerOS))
		findings = append(findings, fmt.Sprintf(
			"Average OS performance improvement: %.1f%%", stats.Mean(osImprovements(osComps))))
	}
	if len(verComps) > 0 {
		best := verComps[0]
		findings = append(findings, fmt.Sprintf(
			"Best OCIO version improvement: %.1f%% (OCIO %s vs %s)",
			best.ImprovementPct, best.FasterVersion, best.SlowerVersion))
	}
	if f, ok := acesFinding(summary); ok {
		findings = append(findings, f)
	}
	if len(findings) == 0 {
		findings = append(findings, "No significant performance differences found")
	}
	for _, f := range findings {
		fmt.Fprintf(w, "- %s\n", f)
	}
	fmt.Fprintln(w)

	section(w, "RECOMMENDATIONS")
	var recs []string
	if len(osComps) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Consider using OS release %s for optimal performance", osComps[0].FasterOS))
	}
	if len(verComps) > 0 {
		recs = append(recs, fmt.Sprintf(
			"OCIO version %s shows the best performance characteristics", verComps[0].FasterVersion))
	}
	if best := fastestCPU(summary); best != "" {
		recs = append(recs, "Top performing CPU: "+Truncate(best, 60))
	}
	if len(recs) == 0 {
		recs = append(recs, "Further analysis recommended with more data")
	}
	for _, r := range recs {
		fmt.Fprintf(w, "- %s\n", r)
	}
	return nil
}

// acesFinding compares the mean times of the ACES families present
// in the summary, when there is more than one.
func acesFinding(summary []ociostat.SummaryRow) (string, bool) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range summary {
		sums[s.AcesVersion] += s.MeanAvgTime
		counts[s.AcesVersion]++
	}
	if len(sums) < 2 {
		return "", false
	}
	var fastest, slowest string
	var fastMean, slowMean float64
	for family, sum := range sums {
		m := sum / float64(counts[family])
		if fastest == "" || m < fastMean {
			fastest, fastMean = family, m
		}
		if slowest == "" || m > slowMean {
			slowest, slowMean = family, m
		}
	}
	if slowMean <= 0 {
		return "", false
	}
	pct := (slowMean - fastMean) / slowMean * 100
	return fmt.Sprintf("ACES version performance: %s is %.1f%% faster than %s",
		fastest, pct, slowest), true
}

func fastestCPU(summary []ociostat.SummaryRow) string {
	best := ""
	bestTime := 0.0
	for _, s := range summary {
		if best == "" || s.MeanAvgTime < bestTime {
			best, bestTime = s.CPUModel, s.MeanAvgTime
		}
	}
	return best
}

func improvementStats(w io.Writer, pcts []float64) {
	if len(pcts) == 0 {
		return
	}
	min, max := stats.Bounds(pcts)
	std := 0.0
	if len(pcts) > 1 {
		std = stats.StdDev(pcts)
	}
	section(w, "IMPROVEMENT STATISTICS")
	fmt.Fprintf(w, "Average improvement: %.1f%%\n", stats.Mean(pcts))
	fmt.Fprintf(w, "Median improvement: %.1f%%\n", stats.Sample{Xs: pcts}.Quantile(0.5))
	fmt.Fprintf(w, "Maximum improvement: %.1f%%\n", max)
	fmt.Fprintf(w, "Minimum improvement: %.1f%%\n", min)
	fmt.Fprintf(w, "Standard deviation: %.1f%%\n", std)
}

func osImprovements(comps []ociostat.OSComparison) []float64 {
	pcts := make([]float64, len(comps))
	for i, c := range comps {
		pcts[i] = c.ImprovementPct
	}
	return pcts
}

// Truncate shortens text to at most n runes, ending with an ellipsis
// when it had to cut.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
