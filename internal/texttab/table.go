// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab does layout of fixed-width text tables for the
// report writers.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// A Table accumulates cells row by row and formats them with aligned
// columns. Methods return the Table so callers can chain them.
type Table struct {
	rows   [][]cell
	aligns []Align
}

type cell struct {
	value string
	align Align
	set   bool // cell carries its own alignment
}

// An Align is a per-column or per-cell text alignment.
type Align int

const (
	Left Align = iota
	Right
)

func (a Align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == Right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// SetAlign sets the default alignment of column col. Columns are
// numbered from 0 and default to Left.
func (t *Table) SetAlign(col int, a Align) *Table {
	for len(t.aligns) < col+1 {
		t.aligns = append(t.aligns, Left)
	}
	t.aligns[col] = a
	return t
}

// Row starts a new row.
func (t *Table) Row(values ...string) *Table {
	t.rows = append(t.rows, nil)
	for _, v := range values {
		t.Cell(v)
	}
	return t
}

// Cell appends one cell to the current row.
func (t *Table) Cell(value string) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	last := len(t.rows) - 1
	t.rows[last] = append(t.rows[last], cell{value: value})
	return t
}

// RightCell appends a right-aligned cell to the current row,
// overriding the column default.
func (t *Table) RightCell(value string) *Table {
	t.Cell(value)
	last := len(t.rows) - 1
	c := &t.rows[last][len(t.rows[last])-1]
	c.align, c.set = Right, true
	return t
}

// Format lays out the table and writes it to w. Columns are separated
// by two spaces; trailing spaces are trimmed.
func (t *Table) Format(w io.Writer) error {
	var widths []int
	for _, row := range t.rows {
		for i, c := range row {
			for len(widths) < i+1 {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(c.value); n > widths[i] {
				widths[i] = n
			}
		}
	}

	align := func(col int, c cell) Align {
		if c.set {
			return c.align
		}
		if col < len(t.aligns) {
			return t.aligns[col]
		}
		return Left
	}

	var sb strings.Builder
	for _, row := range t.rows {
		sb.Reset()
		for i, c := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(align(i, c).pad(c.value, widths[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
