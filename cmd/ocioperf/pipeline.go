// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/plot/vg"

	"github.com/vfxbench/ocioperf/internal/config"
	"github.com/vfxbench/ocioperf/ociochart"
	"github.com/vfxbench/ocioperf/ociofmt"
	"github.com/vfxbench/ocioperf/ocioreport"
	"github.com/vfxbench/ocioperf/ociostat"
)

// Generated artifact names, relative to the output directory.
const (
	summaryReportFile     = "summary_report.txt"
	osComparisonFile      = "cpu_os_comparison_report.txt"
	versionComparisonFile = "ocio_version_comparison_report.txt"
	findingsFile          = "detailed_findings_report.txt"
	rankingsFile          = "version_rankings.txt"
	htmlReportFile        = "analysis_report.html"
	failedFilesFile       = "failed_parse_files.txt"

	acesChartFile       = "aces_performance.png"
	osChartFile         = "os_performance.png"
	histogramChartFile  = "time_distribution.png"
	osImproveChartFile  = "os_improvements.png"
	verImproveChartFile = "version_improvements.png"
	scatterChartFile    = "comparison_scatter.png"
	heatmapChartFile    = "performance_heatmap.png"
)

// A Pipeline runs the analysis stages against one configuration.
type Pipeline struct {
	cfg *config.Config
	log *slog.Logger
}

func NewPipeline(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, log: log}
}

func (p *Pipeline) csvPath() string {
	return filepath.Join(p.cfg.OutputDir, p.cfg.CSVFile)
}

// Parse ingests the source directory and writes the CSV table.
func (p *Pipeline) Parse() error {
	files := ociofmt.NewFiles(p.cfg.SourceDir, p.log)
	results, err := files.Parse()
	if err != nil {
		return err
	}
	if len(files.Failed) > 0 {
		p.log.Warn("some files failed to parse", "count", len(files.Failed), "files", files.Failed)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(p.csvPath())
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	if err := ociofmt.WriteCSV(f, results); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := p.writeFailedFiles(files.Failed); err != nil {
		return err
	}
	p.log.Info("wrote csv table", "path", p.csvPath(), "records", len(results))
	return f.Close()
}

// writeFailedFiles persists the parse-stage failure list next to the
// CSV so the analyze stage can report it. An empty list removes any
// stale file from an earlier run.
func (p *Pipeline) writeFailedFiles(names []string) error {
	path := filepath.Join(p.cfg.OutputDir, failedFilesFile)
	if len(names) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale failure list: %w", err)
		}
		return nil
	}
	data := strings.Join(names, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write failure list: %w", err)
	}
	return nil
}

// readFailedFiles loads the persisted failure list, if any.
func (p *Pipeline) readFailedFiles() []string {
	data, err := os.ReadFile(filepath.Join(p.cfg.OutputDir, failedFilesFile))
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}

// An artifact is one independently generated output. A failing
// artifact never blocks the others.
type artifact struct {
	name string
	fn   func() error
}

// Analyze loads the CSV table and generates every report and chart.
// It fails only when nothing at all could be generated.
func (p *Pipeline) Analyze() error {
	f, err := os.Open(p.csvPath())
	if err != nil {
		return fmt.Errorf("open csv (run parse first): %w", err)
	}
	results, err := ociofmt.ReadCSV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	a := ociostat.NewAnalyzer(p.log)
	a.MaxPlausibleTime = p.cfg.MaxPlausibleTime
	if err := a.Load(results); err != nil {
		return err
	}

	// Summarize before fanning out; every artifact below consumes
	// the summarized state.
	summary, err := a.Summarize()
	if err != nil {
		return err
	}
	perf, err := a.PerformanceSummary()
	if err != nil {
		return err
	}
	osComps, err := a.CompareOSReleases()
	if err != nil {
		return err
	}
	verComps, err := a.CompareVersions()
	if err != nil {
		return err
	}
	rankings, err := a.RankVersions()
	if err != nil {
		return err
	}
	pcts, err := a.Percentiles()
	if err != nil {
		return err
	}
	if outliers, err := a.Outliers(p.cfg.OutlierThreshold); err == nil && len(outliers) > 0 {
		p.log.Warn("outlier records detected",
			"count", len(outliers),
			"threshold", p.cfg.OutlierThreshold,
			"worst_file", outliers[0].FileName,
			"worst_zscore", outliers[0].ZScore)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	gen := ociochart.NewGenerator(p.log)
	gen.Width = vg.Length(p.cfg.ChartWidthInch) * vg.Inch
	gen.Height = vg.Length(p.cfg.ChartHeightInch) * vg.Inch

	out := func(name string) string { return filepath.Join(p.cfg.OutputDir, name) }
	arts := []artifact{
		{summaryReportFile, func() error {
			return p.writeReport(summaryReportFile, func(f *os.File) error {
				return ocioreport.Summary(f, summary, perf, pcts)
			})
		}},
		{osComparisonFile, func() error {
			return p.writeReport(osComparisonFile, func(f *os.File) error {
				return ocioreport.OSComparisons(f, osComps)
			})
		}},
		{versionComparisonFile, func() error {
			return p.writeReport(versionComparisonFile, func(f *os.File) error {
				return ocioreport.VersionComparisons(f, verComps)
			})
		}},
		{findingsFile, func() error {
			return p.writeReport(findingsFile, func(f *os.File) error {
				return ocioreport.Findings(f, osComps, verComps, summary)
			})
		}},
		{rankingsFile, func() error {
			return p.writeReport(rankingsFile, func(f *os.File) error {
				return ocioreport.Rankings(f, rankings)
			})
		}},
		{htmlReportFile, func() error {
			return p.writeReport(htmlReportFile, func(f *os.File) error {
				return ocioreport.WriteHTML(f, ocioreport.HTMLData{
					Title:       "OCIO Performance Analysis",
					Perf:        perf,
					Summary:     summary,
					OSComps:     osComps,
					VerComps:    verComps,
					Rankings:    rankings,
					FailedFiles: p.readFailedFiles(),
				})
			})
		}},
		{acesChartFile, func() error {
			groups, err := a.CompareGroups(ociostat.ByAcesVersion)
			if err != nil {
				return err
			}
			return gen.DimensionBars(out(acesChartFile),
				"Average Performance by ACES Version", "Average Time (ms)", groups)
		}},
		{osChartFile, func() error {
			groups, err := a.CompareGroups(ociostat.ByOSRelease)
			if err != nil {
				return err
			}
			return gen.DimensionBars(out(osChartFile),
				"Average Performance by OS Release", "Average Time (ms)", groups)
		}},
		{histogramChartFile, func() error {
			return gen.TimeHistogram(out(histogramChartFile), summary)
		}},
		{osImproveChartFile, func() error {
			return gen.Improvements(out(osImproveChartFile),
				"Top OS Performance Improvements", osImprovements(osComps))
		}},
		{verImproveChartFile, func() error {
			return gen.Improvements(out(verImproveChartFile),
				"Top OCIO Version Improvements", verImprovements(verComps))
		}},
		{scatterChartFile, func() error {
			return gen.ComparisonScatter(out(scatterChartFile),
				"Performance Comparison Scatter", timePairs(osComps, verComps))
		}},
		{heatmapChartFile, func() error {
			return gen.Heatmap(out(heatmapChartFile), summary)
		}},
	}

	failed := p.runArtifacts(arts)
	if len(failed) == len(arts) {
		return fmt.Errorf("all %d artifacts failed, e.g. %s: %v",
			len(arts), arts[0].name, failed[arts[0].name])
	}
	if len(failed) > 0 {
		p.log.Warn("some artifacts failed", "failed", len(failed), "total", len(arts))
	}
	p.log.Info("analysis complete", "artifacts", len(arts)-len(failed), "dir", p.cfg.OutputDir)
	return nil
}

// runArtifacts generates artifacts in parallel, bounded by the
// configured worker count, and reports the failures by name.
func (p *Pipeline) runArtifacts(arts []artifact) map[string]error {
	workers := p.cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	limit := make(chan struct{}, workers)
	var wg sync.WaitGroup

	var mu sync.Mutex
	failed := make(map[string]error)
	for _, art := range arts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limit <- struct{}{}
			defer func() { <-limit }()

			if err := art.fn(); err != nil {
				p.log.Error("artifact failed", "name", art.name, "err", err)
				mu.Lock()
				failed[art.name] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failed
}

func (p *Pipeline) writeReport(name string, write func(*os.File) error) error {
	f, err := os.Create(filepath.Join(p.cfg.OutputDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	p.log.Info("wrote report", "path", f.Name())
	return f.Close()
}

func osImprovements(comps []ociostat.OSComparison) []ociochart.Improvement {
	imps := make([]ociochart.Improvement, len(comps))
	for i, c := range comps {
		imps[i] = ociochart.Improvement{Label: c.CPUModel, Pct: c.ImprovementPct}
	}
	return imps
}

func verImprovements(comps []ociostat.VersionComparison) []ociochart.Improvement {
	imps := make([]ociochart.Improvement, len(comps))
	for i, c := range comps {
		imps[i] = ociochart.Improvement{Label: c.CPUModel, Pct: c.ImprovementPct}
	}
	return imps
}

func timePairs(osComps []ociostat.OSComparison, verComps []ociostat.VersionComparison) []ociochart.TimePair {
	var pairs []ociochart.TimePair
	for _, c := range osComps {
		pairs = append(pairs, ociochart.TimePair{Faster: c.FasterTime, Slower: c.SlowerTime})
	}
	for _, c := range verComps {
		pairs = append(pairs, ociochart.TimePair{Faster: c.FasterTime, Slower: c.SlowerTime})
	}
	return pairs
}
