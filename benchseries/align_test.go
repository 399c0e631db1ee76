// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"math"
	"testing"
)

func TestIndexAt(t *testing.T) {
	check := func(p Progress, target float64, wantRow int, wantOK bool) {
		t.Helper()
		got, ok := p.IndexAt(target)
		if ok != wantOK {
			t.Errorf("%v.IndexAt(%v) ok = %v, want %v", p, target, ok, wantOK)
			return
		}
		if !ok {
			return
		}
		if got.Row != wantRow || got.Progress != p[wantRow] || got.Target != target {
			t.Errorf("%v.IndexAt(%v) = %+v, want row %d", p, target, got, wantRow)
		}
	}
	check(Progress{1, 5, 10, 50, 100}, 10, 2, true)
	check(Progress{1, 5}, 100, 0, false)
	check(Progress{}, 1, 0, false)
	check(Progress{1, 5, 10, 50, 100}, 0, 0, true)
	check(Progress{1, 5, 10, 50, 100}, 11, 3, true)
	// The first row reaching the target wins over a later, closer row.
	check(Progress{1, 1000, 101, 100}, 100, 1, true)
	// Unparsed rows never match.
	check(Progress{math.NaN(), 20}, 10, 1, true)
}

func TestClampRow(t *testing.T) {
	check := func(row, n, want int, wantOK bool) {
		t.Helper()
		got, ok := ClampRow(row, n)
		if ok != wantOK || (ok && got != want) {
			t.Errorf("ClampRow(%d, %d) = %d, %v, want %d, %v", row, n, got, ok, want, wantOK)
		}
	}
	check(40, 100, 40, true)
	check(40, 41, 40, true)
	check(40, 10, 9, true)
	check(0, 1, 0, true)
	check(3, 0, 0, false)
}

func TestReadProgress(t *testing.T) {
	s := &Series{Values: []string{"10", " 2000 ", "n/a", "1e6"}}
	p := ReadProgress(s)
	if len(p) != 4 || p[0] != 10 || p[1] != 2000 || !math.IsNaN(p[2]) || p[3] != 1e6 {
		t.Errorf("got %v", p)
	}

	check := func(vals []string, want Progress) {
		t.Helper()
		got := ReadProgress(&Series{Values: vals})
		if len(got) != len(want) {
			t.Errorf("ReadProgress(%q) = %v, want %v", vals, got, want)
			return
		}
		for i := range want {
			if got[i] != want[i] && !(math.IsNaN(got[i]) && math.IsNaN(want[i])) {
				t.Errorf("ReadProgress(%q) = %v, want %v", vals, got, want)
				return
			}
		}
	}
	check(nil, Progress{})
	check([]string{"0", "25000", "50000"}, Progress{0, 25000, 50000})
	check([]string{"0.5", "1e5", "2.5e6"}, Progress{0.5, 1e5, 2.5e6})
	// An infinite count never matches.
	check([]string{"1", "Inf"}, Progress{1, math.NaN()})
}
