// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcmp compares the metrics of several configurations of a
// storage engine benchmark.
//
// Each configuration, or experiment, is a directory of CSV files, one
// per metric. Metrics are compared two ways: over time, as line charts
// of each metric for every experiment, and at fixed magnitudes of a
// progress metric such as the number of keys written, as ratios against
// the first, baseline, experiment.
package benchcmp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// A Runner compares the experiments of a Config found under one base
// directory.
type Runner struct {
	Config  *Config
	Base    string    // Directory holding the experiment directories
	Out     string    // Chart directory; if empty, Config.ChartDir under Base
	Summary io.Writer // Receives magnitude summaries; nil discards them
}

// A Result describes what a run produced.
type Result struct {
	Charts  []string // Metrics with an over-time chart
	Index   string   // Path of the markdown index
	Records []*Record
}

// Run produces the over-time chart of every metric found for at least
// two experiments, the markdown index of those charts, and the record,
// summary and bar chart of every magnitude analysis.
//
// Problems with a single metric, magnitude or analysis are reported
// through Config.Warn and skipped. Run fails only if an experiment
// directory cannot be read or an output file cannot be written.
func (r *Runner) Run() (*Result, error) {
	cfg := r.Config
	cat, err := NewCatalog(cfg, r.Base)
	if err != nil {
		return nil, err
	}
	out := r.Out
	if out == "" {
		out = filepath.Join(r.Base, cfg.ChartDir)
	}
	if err := os.MkdirAll(out, 0777); err != nil {
		return nil, err
	}
	summary := r.Summary
	if summary == nil {
		summary = io.Discard
	}

	res := new(Result)
	metrics := cat.Metrics()
	cfg.infof("Found %d common metrics to compare.\n", len(metrics))
	for _, m := range metrics {
		tc, err := CompareOverTime(cfg, m, cat.FilesFor(m))
		if err != nil {
			cfg.warn("Skipping %s\n", err)
			continue
		}
		if tc.Log {
			cfg.infof("Applying log scale to %s\n", m)
		}
		path := filepath.Join(out, ChartFile(m))
		if err := tc.SaveChart(path, cfg.DPI); err != nil {
			cfg.warn("Skipping %s: %s\n", m, err)
			continue
		}
		cfg.infof("Saved %s to %s\n", m, path)
		res.Charts = append(res.Charts, m)
	}

	chartDir, err := filepath.Rel(r.Base, out)
	if err != nil {
		chartDir = out
	}
	res.Index = filepath.Join(r.Base, "charts.md")
	if err := WriteFile(res.Index, func(w io.Writer) error {
		return WriteIndex(w, cfg, filepath.ToSlash(chartDir), res.Charts)
	}); err != nil {
		return nil, err
	}

	if len(cfg.Analyses) == 0 || len(cfg.Magnitudes) == 0 {
		cfg.infof("\nAll done!\n")
		return res, nil
	}
	progress, err := LoadProgress(cfg, cat)
	if err != nil {
		cfg.warn("Skipping magnitude analyses: %s\n", err)
		cfg.infof("\nAll done!\n")
		return res, nil
	}
	for i := range cfg.Analyses {
		a := &cfg.Analyses[i]
		rec := Assemble(cfg, a, LoadInputs(cfg, cat, progress, a))
		res.Records = append(res.Records, rec)
		if len(rec.Entries) == 0 {
			cfg.warn("Skipping %s: no experiment reached any magnitude\n", a.Name)
			continue
		}
		if err := WriteSummary(summary, rec); err != nil {
			return nil, err
		}
		path := filepath.Join(out, a.Name+".png")
		if err := SaveBarCharts(rec, path, cfg.DPI); err != nil {
			cfg.warn("Skipping chart of %s: %s\n", a.Name, err)
			continue
		}
		cfg.infof("Chart saved as '%s'\n", path)
	}
	cfg.infof("\nAll done!\n")
	return res, nil
}

// WriteFile creates path and fills it with write.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
