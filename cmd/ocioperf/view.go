// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// chartInfo describes one generated chart for the view command.
type chartInfo struct {
	file string
	name string
	desc string
}

var chartCatalog = []chartInfo{
	{
		file: acesChartFile,
		name: "ACES Version Performance",
		desc: "Average execution time per ACES family. Shorter bars are faster.",
	},
	{
		file: osChartFile,
		name: "OS Release Performance",
		desc: "Average execution time per OS release across all systems.",
	},
	{
		file: histogramChartFile,
		name: "Performance Time Distribution",
		desc: "Histogram of per-configuration mean times; reveals clustering and long tails.",
	},
	{
		file: osImproveChartFile,
		name: "Top OS Performance Improvements",
		desc: "Largest OS-release improvements per CPU model. Green bars exceed 10%, orange 5%.",
	},
	{
		file: verImproveChartFile,
		name: "Top OCIO Version Improvements",
		desc: "Largest OCIO-version improvements per CPU model on matched systems.",
	},
	{
		file: scatterChartFile,
		name: "Performance Comparison Scatter",
		desc: "Faster vs slower times for every comparison; distance from the diagonal is the gain.",
	},
	{
		file: heatmapChartFile,
		name: "Performance Heatmap",
		desc: "Mean time per (OS release, OCIO version) cell. Missing cells were never measured.",
	},
}

// View lists the generated charts matching filter, with
// descriptions, and optionally opens them with the system image
// viewer.
func (p *Pipeline) View(w io.Writer, filter string, open bool) error {
	if _, err := os.Stat(p.cfg.OutputDir); err != nil {
		return fmt.Errorf("no analysis results at %s (run analyze first): %w", p.cfg.OutputDir, err)
	}

	var matched []chartInfo
	for _, c := range chartCatalog {
		if filter != "" &&
			!strings.Contains(strings.ToLower(c.file), strings.ToLower(filter)) &&
			!strings.Contains(strings.ToLower(c.name), strings.ToLower(filter)) {
			continue
		}
		matched = append(matched, c)
	}
	if len(matched) == 0 {
		return fmt.Errorf("no chart matches %q", filter)
	}

	found := 0
	for _, c := range matched {
		path := filepath.Join(p.cfg.OutputDir, c.file)
		_, err := os.Stat(path)
		exists := err == nil
		status := "missing"
		if exists {
			status = "ok"
			found++
		}
		fmt.Fprintf(w, "%s (%s) [%s]\n    %s\n", c.name, c.file, status, c.desc)
		if exists && open {
			if err := openFile(path); err != nil {
				p.log.Warn("cannot open chart", "path", path, "err", err)
			}
		}
	}
	if found == 0 {
		fmt.Fprintln(w, "\nNo charts generated yet; run analyze first.")
	}
	return nil
}

func openFile(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
