// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociofmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVHeader is the column set of the flat interchange table, in
// order. External tooling re-reads this file directly, so the set and
// order are stable.
var CSVHeader = []string{
	"file_name", "os_release", "cpu_model", "ocio_version", "config_version",
	"source_colorspace", "target_colorspace", "operation", "iteration_count",
	"min_time", "max_time", "avg_time", "timing_values",
}

// WriteCSV writes results to w in the flat interchange format. The
// raw timing samples are serialized as a comma-joined string so they
// survive a round-trip through the table.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, len(CSVHeader))
	for i := range results {
		r := &results[i]
		row[0] = r.FileName
		row[1] = r.OSRelease
		row[2] = r.CPUModel
		row[3] = r.OCIOVersion
		row[4] = r.ConfigVersion
		row[5] = r.SourceColorspace
		row[6] = r.TargetColorspace
		row[7] = r.Operation
		row[8] = strconv.Itoa(r.Iters)
		row[9] = ftoa(r.MinTime)
		row[10] = ftoa(r.MaxTime)
		row[11] = ftoa(r.AvgTime)
		row[12] = joinTimings(r.Timings)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the flat interchange format back into Results. It
// validates that every column of CSVHeader is present; extra columns
// are ignored. Column order does not matter.
func ReadCSV(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	var missing []string
	for _, name := range CSVHeader {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV is missing required columns: %s", strings.Join(missing, ", "))
	}

	var results []Result
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		get := func(name string) string {
			i := pos[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}
		res := Result{
			FileName:         get("file_name"),
			OSRelease:        get("os_release"),
			CPUModel:         get("cpu_model"),
			OCIOVersion:      get("ocio_version"),
			ConfigVersion:    get("config_version"),
			SourceColorspace: get("source_colorspace"),
			TargetColorspace: get("target_colorspace"),
			Operation:        get("operation"),
		}
		if res.Iters, err = strconv.Atoi(get("iteration_count")); err != nil {
			return nil, fmt.Errorf("line %d: parsing iteration_count: %w", line, err)
		}
		if res.Timings, err = splitTimings(get("timing_values")); err != nil {
			return nil, fmt.Errorf("line %d: parsing timing_values: %w", line, err)
		}
		// Derived statistics are recomputed rather than trusted
		// from the table, keeping the record invariant intact
		// even for hand-edited files.
		res.computeStats()
		results = append(results, res)
	}
	return results, nil
}

func joinTimings(timings []float64) string {
	var sb strings.Builder
	for i, v := range timings {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(ftoa(v))
	}
	return sb.String()
}

func splitTimings(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	timings := make([]float64, 0, len(parts))
	for _, tok := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, err
		}
		timings = append(timings, v)
	}
	return timings, nil
}

// ftoa formats floats with the shortest representation that
// round-trips exactly.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
