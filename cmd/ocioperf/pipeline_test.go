// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vfxbench/ocioperf/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SourceDir:        filepath.Join(t.TempDir(), "logs"),
		OutputDir:        filepath.Join(t.TempDir(), "out"),
		CSVFile:          "ocio_test_results.csv",
		LogLevel:         "info",
		ChartWidthInch:   8,
		ChartHeightInch:  5,
		MaxPlausibleTime: 100000,
		OutlierThreshold: 2,
		MaxWorkers:       2,
	}
}

func TestRunArtifacts(t *testing.T) {
	p := NewPipeline(testConfig(t), nil)

	boom := errors.New("boom")
	var ok1, ok2 bool
	failed := p.runArtifacts([]artifact{
		{"a", func() error { ok1 = true; return nil }},
		{"b", func() error { return boom }},
		{"c", func() error { ok2 = true; return nil }},
	})
	if !ok1 || !ok2 {
		t.Error("successful artifacts did not run")
	}
	if len(failed) != 1 || !errors.Is(failed["b"], boom) {
		t.Errorf("failed = %v, want only b", failed)
	}
}

func TestRunArtifactsSingleWorker(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxWorkers = 1
	p := NewPipeline(cfg, nil)

	count := 0
	var arts []artifact
	for i := 0; i < 5; i++ {
		arts = append(arts, artifact{"n", func() error { count++; return nil }})
	}
	// With one worker the artifacts run serially, so the unguarded
	// counter is safe.
	if failed := p.runArtifacts(arts); len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if count != 5 {
		t.Errorf("ran %d artifacts, want 5", count)
	}
}

const testLogR7 = `OCIO Version: 2.4.1
OCIO Config. version: 2.1

model name	: Intel(R) Xeon(R) Gold 6154 CPU @ 3.00GHz

Processing from 'ACES2065-1' to 'Output - sRGB (ACES 1.0)'
CPU processing:  For 10 iterations, it took: [10.5, 11.5, 12.5] ms
GPU processing:  For 10 iterations, it took: [2.5, 3.5] ms
`

const testLogR9 = `OCIO Version: 2.4.1
OCIO Config. version: 2.1

model name	: Intel(R) Xeon(R) Gold 6154 CPU @ 3.00GHz

Processing from 'ACES2065-1' to 'Output - sRGB (ACES 1.0)'
CPU processing:  For 10 iterations, it took: [5.5, 6.5, 7.5] ms
GPU processing:  For 10 iterations, it took: [1.5, 2.5] ms
`

func TestPipelineEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(cfg.SourceDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("OCIO_2.4_ACES_tests_r7_host1.txt", testLogR7)
	write("OCIO_2.4_ACES_tests_r9_host1.txt", testLogR9)

	p := NewPipeline(cfg, nil)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := os.Stat(p.csvPath()); err != nil {
		t.Fatalf("csv not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, failedFilesFile)); !os.IsNotExist(err) {
		t.Errorf("failure list written for a clean parse")
	}

	if err := p.Analyze(); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, name := range []string{
		summaryReportFile,
		osComparisonFile,
		versionComparisonFile,
		findingsFile,
		rankingsFile,
		htmlReportFile,
		acesChartFile,
		osChartFile,
		histogramChartFile,
		heatmapChartFile,
	} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("artifact %s not generated: %v", name, err)
		}
	}

	// Same CPU, same version, two OS releases: the comparison
	// report carries one improvement per operation.
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, osComparisonFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "TOP PERFORMANCE IMPROVEMENTS") {
		t.Errorf("comparison report missing improvements section:\n%s", data)
	}

	var view strings.Builder
	if err := p.View(&view, "", false); err != nil {
		t.Fatalf("View: %v", err)
	}
	if !strings.Contains(view.String(), "OS Release Performance") ||
		!strings.Contains(view.String(), "[ok]") {
		t.Errorf("view output unexpected:\n%s", view.String())
	}
}

func TestFailedFilesRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := NewPipeline(cfg, nil)

	if err := p.writeFailedFiles([]string{"broken_a.txt", "broken_b.txt"}); err != nil {
		t.Fatal(err)
	}
	got := p.readFailedFiles()
	want := []string{"broken_a.txt", "broken_b.txt"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("readFailedFiles = %v, want %v", got, want)
	}

	// A clean run removes the stale list.
	if err := p.writeFailedFiles(nil); err != nil {
		t.Fatal(err)
	}
	if got := p.readFailedFiles(); got != nil {
		t.Errorf("stale failure list survived a clean run: %v", got)
	}
	// Removing an already-absent list is not an error.
	if err := p.writeFailedFiles(nil); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeWithoutCSV(t *testing.T) {
	p := NewPipeline(testConfig(t), nil)
	if err := p.Analyze(); err == nil {
		t.Fatal("Analyze succeeded without a csv table")
	}
}

func TestViewWithoutResults(t *testing.T) {
	p := NewPipeline(testConfig(t), nil)
	var buf strings.Builder
	if err := p.View(&buf, "", false); err == nil {
		t.Fatal("View succeeded without an output directory")
	}
}
