// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Point is one observation of a series: X is minutes since the
// start of the series and Y is the value in display units.
type Point struct {
	X, Y float64
}

// Points is a series of observations ordered by X.
// It implements gonum's plotter.XYer.
type Points []Point

func (p Points) Len() int                { return len(p) }
func (p Points) XY(i int) (x, y float64) { return p[i].X, p[i].Y }
func (p Points) Less(i, j int) bool      { return p[i].X < p[j].X }
func (p Points) Swap(i, j int)           { p[i], p[j] = p[j], p[i] }

// Ys returns the Y values of p.
func (p Points) Ys() []float64 {
	ys := make([]float64, len(p))
	for i, pt := range p {
		ys[i] = pt.Y
	}
	return ys
}

// DefaultWindow is the rolling window size, in points, used when the
// sampling interval of a series cannot be determined.
const DefaultWindow = 10

// WindowSize converts a smoothing window in minutes to a number of
// points, using the mean interval between consecutive points of p.
func WindowSize(p Points, windowMinutes float64) int {
	if len(p) < 2 {
		return DefaultWindow
	}
	deltas := make([]float64, len(p)-1)
	for i := 1; i < len(p); i++ {
		deltas[i-1] = p[i].X - p[i-1].X
	}
	delta := stats.Mean(deltas)
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta == 0 {
		return DefaultWindow
	}
	w := math.Round(windowMinutes / delta)
	if !(w >= 1) {
		return 1
	}
	if limit := float64(2*len(p) - 1); w > limit {
		// 2n-1 centered points span the whole series from every point.
		return int(limit)
	}
	return int(w)
}

// Smooth returns a copy of p with each Y replaced by a centered
// rolling mean over a window of windowMinutes. Windows are clipped at
// the ends of the series, so every point has a value.
func Smooth(p Points, windowMinutes float64) Points {
	return RollingMean(p, WindowSize(p, windowMinutes))
}

// RollingMean returns a copy of p with each Y replaced by the mean of
// the w points centered on it. For even w the window extends one
// point further back than forward. Windows are clipped at the ends of
// the series.
func RollingMean(p Points, w int) Points {
	out := make(Points, len(p))
	copy(out, p)
	if w <= 1 || len(p) == 0 {
		return out
	}
	ahead := (w - 1) / 2
	for i := range p {
		lo, hi := i+ahead-w+1, i+ahead
		if lo < 0 {
			lo = 0
		}
		if hi > len(p)-1 {
			hi = len(p) - 1
		}
		sum := 0.0
		for _, pt := range p[lo : hi+1] {
			sum += pt.Y
		}
		out[i].Y = sum / float64(hi-lo+1)
	}
	return out
}
