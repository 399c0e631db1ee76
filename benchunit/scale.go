// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"
)

// A Unit is a display unit for a set of canonical values. Multiplying
// a canonical value by Scale gives its value in Label units.
//
// A Unit is chosen once per chart and applied to every series on it,
// so values remain comparable across series.
type Unit struct {
	Label string  // Display unit ("GB", "ms", etc)
	Scale float64 // Display value per canonical value
}

type unitStep struct {
	min   float64 // smallest maximum, in canonical units, for this step
	label string
	scale float64
}

// sizeSteps and durationSteps are ordered from largest to smallest.
// The last step applies to everything below the previous one.
var sizeSteps = []unitStep{
	{1024, "GB", 1.0 / 1024},
	{1, "MB", 1},
	{1.0 / 1024, "KB", 1024},
	{math.Inf(-1), "B", 1024 * 1024},
}

var durationSteps = []unitStep{
	{1e6, "s", 1e-6},
	{1e3, "ms", 1e-3},
	{1, "µs", 1},
	{math.Inf(-1), "ns", 1000},
}

// SizeUnit returns the display unit for sizes in megabytes. It is
// chosen from the largest value in vals. Missing values are ignored.
// If there are no values, SizeUnit returns MB.
func SizeUnit(vals []float64) Unit {
	return pickUnit(vals, sizeSteps, Unit{"MB", 1})
}

// DurationUnit returns the display unit for durations in
// microseconds. It is chosen from the largest value in vals. Missing
// values are ignored. If there are no values, DurationUnit returns µs.
func DurationUnit(vals []float64) Unit {
	return pickUnit(vals, durationSteps, Unit{"µs", 1})
}

func pickUnit(vals []float64, steps []unitStep, empty Unit) Unit {
	max, ok := Max(vals)
	if !ok {
		return empty
	}
	for _, s := range steps {
		if max >= s.min {
			return Unit{s.label, s.scale}
		}
	}
	panic("not reachable")
}

// UnitFor returns the display unit for values in canonical unit c.
// Dimensionless values are displayed unscaled with an empty label.
func UnitFor(c Canonical, vals []float64) Unit {
	switch c {
	case Megabytes:
		return SizeUnit(vals)
	case Microseconds:
		return DurationUnit(vals)
	case Seconds:
		us := make([]float64, len(vals))
		for i, v := range vals {
			us[i] = v * 1e6
		}
		u := DurationUnit(us)
		u.Scale *= 1e6
		return u
	}
	return Unit{"", 1}
}

// Max returns the largest non-missing value in vals, and false if
// there is none.
func Max(vals []float64) (float64, bool) {
	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return 0, false
	}
	_, max := stats.Bounds(present)
	return max, true
}

// Apply scales every value in vals in place.
func (u Unit) Apply(vals []float64) {
	for i := range vals {
		vals[i] *= u.Scale
	}
}

// Format formats the canonical value val in unit u with prec digits
// after the decimal point, followed by a space and the unit label.
// For example, Unit{"ms", 1e-3}.Format(1500, 1) returns "1.5 ms".
func (u Unit) Format(val float64, prec int) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val*u.Scale, 'f', prec, 64)
	if u.Label != "" {
		buf = append(buf, ' ')
		buf = append(buf, u.Label...)
	}
	return string(buf)
}
