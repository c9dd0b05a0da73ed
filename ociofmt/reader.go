// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociofmt

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// A ParseError reports a failure to extract anything usable from an
// input file or directory.
type ParseError struct {
	Path string
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Fixed patterns of the OCIO benchmark log grammar. The grammar is
// specific to one tool's output; this is not a general log parser.
var (
	versionPat    = regexp.MustCompile(`OCIO Version:\s*(.+)`)
	configVerPat  = regexp.MustCompile(`OCIO Config\. version:\s*(.+)`)
	processingPat = regexp.MustCompile(`Processing from '(.+)' to '(.+)'`)
	timingPat     = regexp.MustCompile(`(.+?):\s+For (\d+) iterations, it took: \[([^\]\n]*)\] ms`)
	osReleasePat  = regexp.MustCompile(`_r(\d+)[_.]`)
	cpuModelPat   = regexp.MustCompile(`model name\s*:\s*(.+)`)
)

// runSeparator delimits test runs inside one file: a blank line
// immediately followed by the next version declaration.
const runSeparator = "\n\nOCIO Version:"

// A Reader parses OCIO benchmark log files into Results.
//
// A Reader is a pure function of its inputs apart from diagnostic
// logging; it holds no state between files.
type Reader struct {
	log *slog.Logger
}

// NewReader returns a Reader that reports skipped tokens and runs to
// log. A nil log disables diagnostics.
func NewReader(log *slog.Logger) *Reader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reader{log: log}
}

// ParseFile reads and parses a single benchmark log file. It returns
// the results of every test run in the file. A file that parses but
// contains no timing lines yields an empty, non-error result.
func (r *Reader) ParseFile(path string) ([]Result, error) {
	content, err := readFileFallback(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		r.log.Warn("file is empty", "file", path)
		return nil, nil
	}
	return r.parseContent(filepath.Base(path), content), nil
}

// readFileFallback reads path as UTF-8, retrying the decode as
// Latin-1 when the content is not valid UTF-8. Logs still show up
// with mangled hardware-info sections on some hosts.
func readFileFallback(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ParseError{Path: path, Msg: "reading file", Err: err}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &ParseError{Path: path, Msg: "decoding file with Latin-1 fallback", Err: err}
	}
	return string(decoded), nil
}

// parseContent splits content into test runs and parses each run
// independently. A run that fails to parse is skipped; it never
// aborts its sibling runs.
func (r *Reader) parseContent(fileName, content string) []Result {
	cpu := cpuModel(content)
	release := osRelease(fileName)

	var results []Result
	runs := strings.Split(content, runSeparator)
	for i, run := range runs {
		if strings.TrimSpace(run) == "" {
			continue
		}
		// The split consumed the version declaration of every
		// run after the first; put it back.
		if i > 0 {
			run = "OCIO Version:" + run
		}
		results = append(results, r.parseRun(run, fileName, release, cpu)...)
	}
	return results
}

// parseRun extracts all Results from a single test run.
func (r *Reader) parseRun(run, fileName, release, cpu string) []Result {
	version := "Unknown"
	if m := versionPat.FindStringSubmatch(run); m != nil {
		version = strings.TrimSpace(m[1])
	}
	configVer := "Unknown"
	if m := configVerPat.FindStringSubmatch(run); m != nil {
		configVer = strings.TrimSpace(m[1])
	}
	source, target := "Unknown", "Unknown"
	if m := processingPat.FindStringSubmatch(run); m != nil {
		source, target = m[1], m[2]
	}

	var results []Result
	for _, m := range timingPat.FindAllStringSubmatch(run, -1) {
		op := strings.TrimSpace(m[1])
		iters, err := strconv.Atoi(m[2])
		if err != nil {
			// Unreachable with the current pattern, but a
			// timing line with a bogus count is not worth a
			// record.
			r.log.Warn("skipping timing line with bad iteration count",
				"file", fileName, "operation", op, "count", m[2])
			continue
		}
		timings := r.parseTimings(fileName, op, m[3])
		if len(timings) == 0 {
			// Drop the record only when no token parsed at
			// all.
			continue
		}
		res := Result{
			FileName:         fileName,
			OSRelease:        release,
			CPUModel:         cpu,
			OCIOVersion:      version,
			ConfigVersion:    configVer,
			SourceColorspace: source,
			TargetColorspace: target,
			Operation:        op,
			Iters:            iters,
			Timings:          timings,
		}
		res.computeStats()
		results = append(results, res)
	}
	return results
}

// parseTimings parses the comma-separated sample list from a timing
// line. Unparseable tokens are skipped with a warning; the surviving
// samples keep their original order.
func (r *Reader) parseTimings(fileName, op, list string) []float64 {
	var timings []float64
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			r.log.Warn("could not parse timing value",
				"file", fileName, "operation", op, "value", tok)
			continue
		}
		timings = append(timings, v)
	}
	return timings
}

// osRelease derives the OS release tag from a log file name. File
// names following the site convention carry a "_r<digits>" token
// terminated by an underscore or period; anything else maps to
// "Unknown" and is excluded from release-based comparisons.
func osRelease(fileName string) string {
	if m := osReleasePat.FindStringSubmatch(fileName); m != nil {
		return "r" + m[1]
	}
	return "Unknown"
}

// cpuModel finds the "model name : <value>" line of the hardware-info
// dump embedded in the log. It is extracted once per file and shared
// by every run in that file.
func cpuModel(content string) string {
	if m := cpuModelPat.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Unknown"
}
