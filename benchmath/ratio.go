// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath compares measurements of different benchmark
// configurations against a baseline configuration.
package benchmath

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A RatioKind classifies a Ratio.
type RatioKind int

const (
	// Undefined ratios have no meaningful value, for example
	// because both the value and the baseline are zero.
	Undefined RatioKind = iota
	// Finite ratios have a Value.
	Finite
	// Unbounded ratios compare a positive value against a zero
	// baseline.
	Unbounded
)

// A Ratio is a measurement divided by its baseline.
type Ratio struct {
	Kind  RatioKind
	Value float64 // Valid if Kind == Finite
}

// Compare returns value / baseline. The ratio is only computed when
// baseline is strictly positive. A positive value over a zero baseline
// is Unbounded rather than divided. Everything else is Undefined.
func Compare(value, baseline float64) Ratio {
	switch {
	case math.IsNaN(value) || math.IsNaN(baseline):
		return Ratio{Kind: Undefined}
	case baseline > 0:
		return Ratio{Kind: Finite, Value: value / baseline}
	case baseline == 0 && value > 0:
		return Ratio{Kind: Unbounded}
	}
	return Ratio{Kind: Undefined}
}

// Defined reports whether r is Finite or Unbounded.
func (r Ratio) Defined() bool {
	return r.Kind != Undefined
}

// String formats r as a multiplier, such as "50.0x". Unbounded ratios
// are "∞x" and undefined ones are "-".
func (r Ratio) String() string {
	switch r.Kind {
	case Finite:
		return fmt.Sprintf("%.1fx", r.Value)
	case Unbounded:
		return "∞x"
	}
	return "-"
}

// MaxUpTo returns the largest value among vals[0:n+1], ignoring NaNs.
// If there are none, it returns 0.
func MaxUpTo(vals []float64, n int) float64 {
	if n >= len(vals) {
		n = len(vals) - 1
	}
	var xs []float64
	for _, v := range vals[:n+1] {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return 0
	}
	_, max := stats.Bounds(xs)
	// Values below zero never beat the running maximum, which
	// starts at zero.
	return math.Max(max, 0)
}
