// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ozonebench/perfcmp/benchmath"
	"github.com/ozonebench/perfcmp/benchseries"
	"github.com/ozonebench/perfcmp/benchunit"
)

// MagnitudeLabel returns the label of a target magnitude, such as
// "10^6" for 1e6. The exponent is the number of digits of the
// magnitude's integer part, less one.
func MagnitudeLabel(m float64) string {
	digits := len(strconv.FormatFloat(math.Trunc(math.Abs(m)), 'f', 0, 64))
	return fmt.Sprintf("10^%d", digits-1)
}

// A Measurement is one metric's value at a magnitude.
type Measurement struct {
	Metric string
	Value  float64 // In Unit; 0 if Missing
	Unit   benchunit.Canonical
	Row    int // Row of the metric file the value was taken from

	// Missing is set if the value at Row could not be parsed.
	// Value is then 0.
	Missing bool
}

// An Entry is what one experiment measured when its progress reached a
// target magnitude.
type Entry struct {
	Experiment   string
	Magnitude    string // Label, such as "10^6"
	Index        benchseries.ProgressIndex
	Measurements map[string]*Measurement // By metric title
}

// A Record is the result of an analysis: for every experiment and
// every magnitude it reached, the measured metrics.
type Record struct {
	Analysis    *Analysis
	Baseline    string                       // Name of the baseline experiment
	Experiments []string                     // Experiment names, in configuration order
	Labels      []string                     // Magnitude labels, in configuration order
	Entries     map[string]map[string]*Entry // Experiment -> label -> entry
}

// Entry returns the entry of experiment exp at magnitude label, or nil.
func (r *Record) Entry(exp, label string) *Entry {
	return r.Entries[exp][label]
}

// An Input is the data of one experiment for an analysis.
type Input struct {
	Experiment string
	Progress   benchseries.Progress
	Series     map[string]*benchseries.Series // By metric title; absent if the file is missing
}

// LoadInputs reads, for each experiment, the progress series and the
// metric files used by analysis a. Missing metric files are reported
// through cfg.Warn and left out of the input.
func LoadInputs(cfg *Config, cat *Catalog, progress *ProgressSet, a *Analysis) []*Input {
	var inputs []*Input
	for _, e := range cfg.Experiments {
		in := &Input{
			Experiment: e.Name,
			Progress:   progress.For(e.Name),
			Series:     make(map[string]*benchseries.Series),
		}
		byFile := make(map[string]*benchseries.Series)
		for _, m := range a.Metrics {
			path, err := FindFile(cat.Dir(e), m.Pattern)
			if err != nil {
				cfg.warn("%s: %s: %s\n", a.Name, e.Name, err)
				continue
			}
			s, ok := byFile[path]
			if !ok {
				s, err = benchseries.ReadFile(path)
				if err != nil {
					cfg.warn("%s: %s: %v: %s\n", a.Name, e.Name, err, ErrParse)
					continue
				}
				byFile[path] = s
			}
			in.Series[m.Title] = s
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Assemble extracts the metrics of analysis a at every magnitude of
// cfg from inputs.
//
// For each experiment and magnitude, the first row of the experiment's
// progress series that reaches the magnitude is located, and that row
// index is clamped to the length of each metric file. Magnitudes that
// are never reached, and metric files with no rows, are reported
// through cfg.Warn and left out of the record.
func Assemble(cfg *Config, a *Analysis, inputs []*Input) *Record {
	r := &Record{
		Analysis: a,
		Baseline: cfg.Baseline().Name,
		Entries:  make(map[string]map[string]*Entry),
	}
	for _, m := range cfg.Magnitudes {
		r.Labels = append(r.Labels, MagnitudeLabel(m))
	}
	for _, e := range cfg.Experiments {
		r.Experiments = append(r.Experiments, e.Name)
	}

	for _, in := range inputs {
		for i, m := range cfg.Magnitudes {
			label := r.Labels[i]
			idx, ok := in.Progress.IndexAt(m)
			if !ok {
				cfg.warn("%s: %s: %s: %s\n", a.Name, in.Experiment, label, ErrAlignmentMiss)
				continue
			}
			ent := &Entry{
				Experiment:   in.Experiment,
				Magnitude:    label,
				Index:        idx,
				Measurements: make(map[string]*Measurement),
			}
			for j := range a.Metrics {
				spec := &a.Metrics[j]
				s, ok := in.Series[spec.Title]
				if !ok {
					continue
				}
				meas, err := measure(spec, s, idx.Row)
				if err != nil {
					cfg.warn("%s: %s: %s: %s: %s\n", a.Name, in.Experiment, label, spec.Title, err)
				}
				if meas != nil {
					ent.Measurements[spec.Title] = meas
				}
			}
			if len(ent.Measurements) == 0 {
				continue
			}
			if r.Entries[in.Experiment] == nil {
				r.Entries[in.Experiment] = make(map[string]*Entry)
			}
			r.Entries[in.Experiment][label] = ent
		}
	}
	return r
}

// measure takes metric spec from s at progress row. A value that
// cannot be parsed is recorded as a missing 0 and reported in err.
func measure(spec *MetricSpec, s *benchseries.Series, row int) (*Measurement, error) {
	row, ok := benchseries.ClampRow(row, s.Len())
	if !ok {
		return nil, ErrEmptySeries
	}
	fam, target := spec.Family()
	meas := &Measurement{
		Metric: spec.Title,
		Unit:   fam.Canonical(target),
		Row:    row,
	}
	switch spec.Reduce {
	case "at":
		v, err := fam.Parse(s.Values[row], target)
		if err != nil {
			meas.Missing = true
			return meas, fmt.Errorf("row %d: %v: %w", row, err, ErrParse)
		}
		meas.Value = v.Num
	case "max":
		vals := make([]float64, row+1)
		for i := range vals {
			v, _ := fam.Parse(s.Values[i], target)
			vals[i] = v.Num
		}
		meas.Value = benchmath.MaxUpTo(vals, row)
	default:
		panic(fmt.Sprintf("bad reduction %q", spec.Reduce))
	}
	return meas, nil
}

// Values returns every value of metric in r, for choosing a unit.
func (r *Record) Values(metric string) []float64 {
	var vals []float64
	for _, exp := range r.Experiments {
		for _, label := range r.Labels {
			if ent := r.Entry(exp, label); ent != nil {
				if m, ok := ent.Measurements[metric]; ok {
					vals = append(vals, m.Value)
				}
			}
		}
	}
	return vals
}

// Unit returns the display unit of metric in r.
func (r *Record) Unit(metric string) benchunit.Unit {
	for _, spec := range r.Analysis.Metrics {
		if spec.Title == metric {
			fam, target := spec.Family()
			return benchunit.UnitFor(fam.Canonical(target), r.Values(metric))
		}
	}
	return benchunit.Unit{Label: "", Scale: 1}
}

// A RatioRow is one experiment's measurement compared to the baseline.
type RatioRow struct {
	Experiment string
	Baseline   bool
	Entry      *Entry
	Value      float64
	Missing    bool
	Ratio      benchmath.Ratio // Undefined for the baseline row
}

// Ratios compares metric across experiments at magnitude label. The
// first row is the baseline. Experiments with no measurement are left
// out. Ratios reports false if the baseline has no measurement or no
// other experiment does.
func (r *Record) Ratios(metric, label string) ([]RatioRow, bool) {
	base := r.Entry(r.Baseline, label)
	if base == nil {
		return nil, false
	}
	bm, ok := base.Measurements[metric]
	if !ok {
		return nil, false
	}
	rows := []RatioRow{{
		Experiment: r.Baseline,
		Baseline:   true,
		Entry:      base,
		Value:      bm.Value,
		Missing:    bm.Missing,
	}}
	for _, exp := range r.Experiments {
		if exp == r.Baseline {
			continue
		}
		ent := r.Entry(exp, label)
		if ent == nil {
			continue
		}
		m, ok := ent.Measurements[metric]
		if !ok {
			continue
		}
		rows = append(rows, RatioRow{
			Experiment: exp,
			Entry:      ent,
			Value:      m.Value,
			Missing:    m.Missing,
			Ratio:      benchmath.Compare(m.Value, bm.Value),
		})
	}
	if len(rows) < 2 {
		return nil, false
	}
	return rows, true
}
