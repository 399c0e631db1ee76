// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables for terminals.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Methods that add cells return the Table so calls can be chained.
type Table struct {
	cells []cell
	cols  int

	row, col int
	started  bool
}

type cell struct {
	row, col, span int
	value          string
	margin         string
	align          align
	fill           rune // If non-zero, the cell is a rule spanning the table
}

// A CellOption adjusts a cell.
type CellOption func(c *cell)

// LeftMargin sets the text printed before a cell. Cells default to a
// single space, except in the first column and when empty.
func LeftMargin(x string) CellOption {
	return func(c *cell) {
		c.margin = x
	}
}

var (
	Left   CellOption = func(c *cell) { c.align = alignLeft }
	Center CellOption = func(c *cell) { c.align = alignCenter }
	Right  CellOption = func(c *cell) { c.align = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// pad pads s to width w.
func (a align) pad(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	switch a {
	case alignCenter:
		l := (w - n) / 2
		return strings.Repeat(" ", l) + s
	case alignRight:
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

// Row starts a new row.
func (t *Table) Row() *Table {
	if t.started {
		t.row++
	}
	t.started = true
	t.col = 0
	return t
}

// Col skips to column col. Columns are numbered from 0.
func (t *Table) Col(col int) *Table {
	if col < t.col {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.col, col))
	}
	t.col = col
	return t
}

// Cell adds a single-column cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Span adds a cell covering cols columns at the current row and
// column.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	t.started = true
	c := cell{row: t.row, col: t.col, span: cols, value: value, margin: " "}
	if t.col == 0 || value == "" {
		c.margin = ""
	}
	for _, o := range opts {
		o(&c)
	}
	t.cells = append(t.cells, c)
	t.col += cols
	if t.col > t.cols {
		t.cols = t.col
	}
	return t
}

// Rule adds a row holding a horizontal line of ch as wide as the
// whole table.
func (t *Table) Rule(ch rune) *Table {
	t.Row()
	t.cells = append(t.cells, cell{row: t.row, col: 0, fill: ch})
	return t
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Format lays out the table and writes it to w.
func (t *Table) Format(w io.Writer) error {
	if t.cols == 0 && len(t.cells) == 0 {
		return nil
	}
	cols := max(t.cols, 1)

	// The widest margin in each column applies to the whole column.
	margin := make([]int, cols)
	for _, c := range t.cells {
		if c.fill == 0 {
			margin[c.col] = max(margin[c.col], utf8.RuneCountInString(c.margin))
		}
	}

	// Size columns from single cells first, then widen them
	// evenly where a spanning cell does not fit.
	cells := append([]cell(nil), t.cells...)
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].span < cells[j].span })
	widths := make([]int, cols)
	for _, c := range cells {
		if c.fill != 0 {
			continue
		}
		need := utf8.RuneCountInString(c.value) + margin[c.col]
		have := 0
		for i := c.col; i < c.col+c.span; i++ {
			have += widths[i]
		}
		for i := 0; have < need; i++ {
			widths[c.col+i%c.span]++
			have++
		}
	}
	offs := make([]int, cols+1)
	for i, wd := range widths {
		offs[i+1] = offs[i] + wd
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})
	var b strings.Builder
	row, pos := 0, 0
	for _, c := range cells {
		for row < c.row {
			b.WriteByte('\n')
			row++
			pos = 0
		}
		if c.fill != 0 {
			b.WriteString(strings.Repeat(string(c.fill), offs[cols]))
			pos = offs[cols]
			continue
		}
		if strings.TrimSpace(c.value) == "" && strings.TrimSpace(c.margin) == "" {
			// Skip blank cells so rows have no trailing spaces.
			continue
		}
		start := offs[c.col]
		b.WriteString(strings.Repeat(" ", max(start-pos, 0)))
		b.WriteString(strings.Repeat(" ", margin[c.col]-utf8.RuneCountInString(c.margin)))
		b.WriteString(c.margin)
		width := offs[c.col+c.span] - start - margin[c.col]
		s := c.align.pad(c.value, width)
		b.WriteString(s)
		pos = start + margin[c.col] + utf8.RuneCountInString(s)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
