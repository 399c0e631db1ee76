// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestPad(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		if got := a.pad(s, w); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 10, "abc")
	check("abc", alignCenter, 10, "   abc")
	check("abc", alignCenter, 11, "    abc")
	check("abc", alignRight, 10, "       abc")
	check("∞x", alignRight, 4, "  ∞x")
	check("toolong", alignRight, 3, "toolong")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var buf strings.Builder
		if err := tab.Format(&buf); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != want {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		tab = Table{}
	}

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a b c\nd e f\n")

	// No trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a    b c\nlong e long\n")

	tab.Row().Cell("a", Left).Cell("b", Center).Cell("c", Right)
	tab.Row().Cell("xxx").Cell("xxx").Cell("xxx")
	check("a    b    c\nxxx xxx xxx\n")

	tab.Row().Cell("a").Cell("b", LeftMargin(" │ "))
	tab.Row().Cell("c").Cell("d")
	check("a │ b\nc   d\n")

	// A span widens the columns under it.
	tab.Row().Cell("").Span(2, "wide header")
	tab.Row().Cell("x").Cell("1").Cell("2")
	check("  wide header\nx 1     2\n")

	// Rules are as wide as the table.
	tab.Row().Cell("name").Cell("value", Right)
	tab.Rule('-')
	tab.Row().Cell("a").Cell("1", Right)
	check("name value\n----------\na        1\n")

	// Skipping columns.
	tab.Row().Cell("a").Col(2).Cell("c")
	tab.Row().Cell("a").Cell("b").Cell("c")
	check("a   c\na b c\n")

	check("")
}
