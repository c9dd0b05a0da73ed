// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ociofmt

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesParse(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a_r7_.txt", sampleRun)
	writeTestFile(t, dir, "b_r9_.txt", sampleRun)
	writeTestFile(t, dir, "notes.md", "ignored")
	writeTestFile(t, dir, "garbage.txt", "nothing to see")

	f := NewFiles(dir, slog.New(slog.DiscardHandler))
	results, err := f.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want 4 (2 per parseable file)", len(results))
	}
	// garbage.txt parses cleanly to zero records; it is not a
	// failure.
	if len(f.Failed) != 0 {
		t.Errorf("Failed = %v, want none", f.Failed)
	}
	if results[0].OSRelease != "r7" || results[2].OSRelease != "r9" {
		t.Errorf("files not parsed in name order: %q, %q",
			results[0].OSRelease, results[2].OSRelease)
	}
}

func TestFilesNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "notes.md", "not a log")

	_, err := NewFiles(dir, nil).Parse()
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
}

func TestFilesNothingParsed(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "no timing lines at all")

	_, err := NewFiles(dir, nil).Parse()
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
}

func TestFilesMissingDir(t *testing.T) {
	_, err := NewFiles(filepath.Join(t.TempDir(), "nope"), nil).Parse()
	if err == nil {
		t.Fatal("Parse succeeded on a missing directory")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T, want *ParseError", err)
	}
}
