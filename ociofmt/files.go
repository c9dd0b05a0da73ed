// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociofmt

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Sentinel errors distinguishing the terminal conditions of a
// directory batch. Both are wrapped in a *ParseError carrying the
// directory path and a human-readable message.
var (
	// ErrNoFiles means the directory contained no files matching
	// the extension filter.
	ErrNoFiles = errors.New("no matching input files")

	// ErrNoRecords means files were found but none of them yielded
	// a single valid record.
	ErrNoRecords = errors.New("no valid records parsed")
)

// A Files parses every eligible benchmark log in a directory.
//
// Individual file failures are collected in Failed and logged; they
// never abort the batch. Only a batch that produces zero records
// overall is reported as an error.
type Files struct {
	// Dir is the directory to enumerate.
	Dir string

	// Ext is the file extension filter. It defaults to ".txt".
	Ext string

	// Failed lists the base names of files that could not be
	// parsed, in enumeration order. It is populated by Parse.
	Failed []string

	log    *slog.Logger
	reader *Reader
}

// NewFiles returns a Files over dir reporting diagnostics to log.
func NewFiles(dir string, log *slog.Logger) *Files {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Files{
		Dir:    dir,
		Ext:    ".txt",
		log:    log,
		reader: NewReader(log),
	}
}

// Parse enumerates the directory and parses each matching file,
// returning the combined record sequence.
//
// It fails when the directory is missing, contains no matching files
// (ErrNoFiles), or when every file failed to yield records
// (ErrNoRecords). Partial failures are reported through Failed and
// the log only.
func (f *Files) Parse() ([]Result, error) {
	info, err := os.Stat(f.Dir)
	if err != nil {
		return nil, &ParseError{Path: f.Dir, Msg: "reading directory", Err: err}
	}
	if !info.IsDir() {
		return nil, &ParseError{Path: f.Dir, Msg: "not a directory"}
	}

	paths, err := f.enumerate()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &ParseError{
			Path: f.Dir,
			Msg:  fmt.Sprintf("no *%s files found", f.Ext),
			Err:  ErrNoFiles,
		}
	}
	f.log.Info("parsing benchmark logs", "dir", f.Dir, "files", len(paths))

	var all []Result
	f.Failed = f.Failed[:0]
	for _, path := range paths {
		results, err := f.reader.ParseFile(path)
		if err != nil {
			f.log.Error("failed to parse file", "file", path, "err", err)
			f.Failed = append(f.Failed, filepath.Base(path))
			continue
		}
		f.log.Info("parsed file", "file", filepath.Base(path), "results", len(results))
		all = append(all, results...)
	}

	if len(f.Failed) > 0 {
		f.log.Warn("some files failed to parse", "failed", len(f.Failed), "files", f.Failed)
	}
	if len(all) == 0 {
		return nil, &ParseError{
			Path: f.Dir,
			Msg:  fmt.Sprintf("no valid results in any of %d files", len(paths)),
			Err:  ErrNoRecords,
		}
	}
	f.log.Info("parsed benchmark logs",
		"results", len(all), "ok", len(paths)-len(f.Failed), "total", len(paths))
	return all, nil
}

// enumerate returns the matching file paths in name order so a batch
// is reproducible regardless of directory iteration order.
func (f *Files) enumerate() ([]string, error) {
	ext := f.Ext
	if ext == "" {
		ext = ".txt"
	}
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, &ParseError{Path: f.Dir, Msg: "reading directory", Err: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		paths = append(paths, filepath.Join(f.Dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
