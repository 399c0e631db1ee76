// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"
	"math"
	"strings"

	"github.com/ozonebench/perfcmp/benchseries"
	"github.com/ozonebench/perfcmp/benchunit"
	"gonum.org/v1/plot/vg"
)

// A ConfigSeries is one experiment's usable observations of a metric.
type ConfigSeries struct {
	Experiment string
	Points     benchseries.Points // X in minutes, Y in display units
}

// A TimeComparison is one metric over time for several experiments,
// in a display unit shared by all of them.
type TimeComparison struct {
	Metric   string
	Family   benchunit.Family
	Unit     benchunit.Unit
	YLabel   string
	Log      bool
	Smoothed bool
	Series   []ConfigSeries // In configuration order
}

// CompareOverTime builds the over-time comparison of metric from
// files, which maps experiment names to CSV paths.
//
// The unit family is decided once, from the first value of the first
// experiment with data, and applies to every experiment. Rows whose
// value or timestamp cannot be parsed are dropped. Experiments whose
// file is missing or has no usable rows are reported through cfg.Warn
// and left out, once each. CompareOverTime fails if fewer than two
// experiments remain; the error wraps the first reason but does not
// repeat it.
func CompareOverTime(cfg *Config, metric string, files map[string]string) (*TimeComparison, error) {
	var loaded []*benchseries.Series
	var names []string
	var firstErr error
	skip := func(err error) {
		cfg.warn("%s\n", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, e := range cfg.Experiments {
		path, ok := files[e.Name]
		if !ok {
			skip(fmt.Errorf("%s: %s: %w", metric, e.Name, ErrMissingFile))
			continue
		}
		s, err := benchseries.ReadFile(path)
		if err != nil {
			skip(fmt.Errorf("%s: %s: %v: %w", metric, e.Name, err, ErrParse))
			continue
		}
		if s.Len() == 0 {
			skip(fmt.Errorf("%s: %s: %w", metric, e.Name, ErrEmptySeries))
			continue
		}
		loaded = append(loaded, s)
		names = append(names, e.Name)
	}
	if len(loaded) == 0 {
		return nil, &skipError{metric + ": no experiment has data", firstErr}
	}

	sample, _ := loaded[0].Sample()
	tc := &TimeComparison{
		Metric:   metric,
		Family:   benchunit.Classify(sample),
		Log:      cfg.LogScale(metric),
		Smoothed: cfg.Smoothed(metric),
	}

	var all []float64
	for i, s := range loaded {
		pts, dropped, err := parsePoints(tc.Family, s)
		if err != nil {
			skip(fmt.Errorf("%s: %s: %w", metric, names[i], err))
			continue
		}
		if dropped != nil {
			cfg.warn("%s: %s: %s\n", metric, names[i], dropped)
		}
		tc.Series = append(tc.Series, ConfigSeries{names[i], pts})
		all = append(all, pts.Ys()...)
	}
	if len(tc.Series) < 2 {
		if firstErr == nil {
			// Only one experiment is configured.
			firstErr = ErrMissingFile
		}
		msg := fmt.Sprintf("%s: %d of %d experiments have data", metric, len(tc.Series), len(cfg.Experiments))
		return nil, &skipError{msg, firstErr}
	}

	tc.Unit = benchunit.UnitFor(tc.Family.Canonical(benchunit.Microseconds), all)
	switch tc.Family {
	case benchunit.Duration:
		tc.YLabel = fmt.Sprintf("Time (%s)", tc.Unit.Label)
	case benchunit.Size:
		tc.YLabel = fmt.Sprintf("Size (%s)", tc.Unit.Label)
	default:
		tc.YLabel = metric
	}
	for i := range tc.Series {
		pts := tc.Series[i].Points
		for j := range pts {
			pts[j].Y *= tc.Unit.Scale
		}
	}

	if tc.Smoothed {
		cfg.infof("Applying smoothing to %s\n", metric)
		for i := range tc.Series {
			tc.Series[i].Points = benchseries.Smooth(tc.Series[i].Points, cfg.SmoothingWindow)
		}
	}
	return tc, nil
}

// parsePoints parses the rows of s in unit family fam. Rows that fail
// to parse are dropped; if there are any, dropped describes them and
// wraps ErrParse.
func parsePoints(fam benchunit.Family, s *benchseries.Series) (pts benchseries.Points, dropped, err error) {
	offs, err := s.Offsets()
	if err != nil {
		return nil, nil, fmt.Errorf("timestamps: %v: %w", err, ErrEmptySeries)
	}
	pts = make(benchseries.Points, 0, s.Len())
	bad := 0
	for i, text := range s.Values {
		v, perr := fam.Parse(text, benchunit.Microseconds)
		if perr != nil {
			if bad == 0 {
				dropped = perr
			}
			bad++
			continue
		}
		if math.IsNaN(offs[i]) {
			continue
		}
		pts = append(pts, benchseries.Point{X: offs[i], Y: v.Num})
	}
	if bad > 0 {
		dropped = fmt.Errorf("dropped %d of %d rows: %v: %w", bad, s.Len(), dropped, ErrParse)
	}
	if len(pts) == 0 {
		return nil, dropped, fmt.Errorf("no valid data after conversion: %w", ErrEmptySeries)
	}
	return pts, dropped, nil
}

// ChartFile returns the file name of the chart of metric.
func ChartFile(metric string) string {
	return strings.ReplaceAll(metric, " ", "_") + "_comparison.png"
}

// Chart returns the line chart of tc.
func (tc *TimeComparison) Chart() *benchseries.LineChart {
	lc := &benchseries.LineChart{
		Title:  tc.Metric + " Over Time",
		XLabel: "Time Offset (minutes)",
		YLabel: tc.YLabel,
		Log:    tc.Log,
	}
	for _, s := range tc.Series {
		lc.Lines = append(lc.Lines, benchseries.Line{Label: s.Experiment, Points: s.Points})
	}
	return lc
}

// SaveChart writes the chart of tc to path as a PNG image.
func (tc *TimeComparison) SaveChart(path string, dpi int) error {
	pl, err := tc.Chart().Plot()
	if err != nil {
		return err
	}
	return benchseries.SavePNG(path, 10*vg.Inch, 6*vg.Inch, dpi, pl)
}
