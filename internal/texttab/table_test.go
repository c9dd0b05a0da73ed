// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func format(t *testing.T, tab *Table) string {
	t.Helper()
	var sb strings.Builder
	if err := tab.Format(&sb); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func TestAlignment(t *testing.T) {
	var tab Table
	tab.SetAlign(1, Right)
	tab.Row("name", "time")
	tab.Row("short", "1.5")
	tab.Row("a much longer name", "100.25")

	got := format(t, &tab)
	want := strings.Join([]string{
		"name                  time",
		"short                  1.5",
		"a much longer name  100.25",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRaggedRows(t *testing.T) {
	var tab Table
	tab.Row("a", "b", "c")
	tab.Row("only one")

	got := format(t, &tab)
	if strings.Contains(got, "only one ") {
		t.Errorf("trailing spaces not trimmed:\n%q", got)
	}
	if !strings.HasPrefix(got, "a         b  c\n") {
		t.Errorf("unexpected layout:\n%s", got)
	}
}

func TestPerCellOverride(t *testing.T) {
	var tab Table
	tab.Row("header")
	tab.Row().RightCell("42")
	tab.Row("wide column")

	lines := strings.Split(format(t, &tab), "\n")
	if lines[1] != "         42" {
		t.Errorf("right-aligned cell = %q", lines[1])
	}
}
