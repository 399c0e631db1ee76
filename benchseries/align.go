// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/ozonebench/perfcmp/benchunit"
)

// Progress is a monotonic reference series, such as the cumulative
// number of keys written, used to line up runs of different
// configurations that progress at different speeds.
type Progress []float64

// A ProgressIndex locates a target magnitude in a Progress series.
type ProgressIndex struct {
	Target   float64 // Requested magnitude
	Row      int     // Index of the matched row
	Progress float64 // Progress value at Row
}

// ReadProgress reads a Progress series from the value column of s.
// A column of plain numbers is converted as a whole. Otherwise each
// value is parsed on its own; values that cannot be parsed are NaN and
// never match a target.
func ReadProgress(s *Series) Progress {
	rows := make([][]string, len(s.Values))
	for i, v := range s.Values {
		rows[i] = []string{v}
	}
	tab := table.TableFromStrings([]string{"progress"}, rows, true)
	p := make(Progress, s.Len())
	switch col := tab.MustColumn("progress").(type) {
	case []int:
		for i, v := range col {
			p[i] = float64(v)
		}
	case []float64:
		for i, v := range col {
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			p[i] = v
		}
	default:
		for i, v := range s.Values {
			p[i] = benchunit.ParsePlain(v).Num
		}
	}
	return p
}

// IndexAt returns the first row of p whose value reaches target.
// It reports false if no row does.
func (p Progress) IndexAt(target float64) (ProgressIndex, bool) {
	best, bestDiff := -1, math.Inf(1)
	for i, v := range p {
		if v >= target {
			// The first qualifying row always wins, even if a later
			// row is closer to target.
			if diff := math.Abs(v - target); diff < bestDiff {
				best, bestDiff = i, diff
			}
			break
		}
	}
	if best < 0 {
		return ProgressIndex{Target: target}, false
	}
	return ProgressIndex{Target: target, Row: best, Progress: p[best]}, true
}

// ClampRow maps a row of the progress series onto a metric file with
// n rows by clamping it to the last row. It reports false if the file
// has no rows.
//
// This is an approximation: it assumes the metric file and the
// progress series were sampled in lock step, and does not join them
// on timestamps.
func ClampRow(row, n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	if row > n-1 {
		row = n - 1
	}
	if row < 0 {
		row = 0
	}
	return row, true
}
