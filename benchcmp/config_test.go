// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozonebench/perfcmp/benchunit"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := cfg.Baseline().Name; got != "Enable Range Compaction" {
		t.Errorf("baseline %q", got)
	}
	if !cfg.Smoothed("Number of seeks per second") || cfg.Smoothed("Seek average latency (μs)") {
		t.Errorf("wrong smoothing set")
	}
	if !cfg.LogScale("Seek average latency") || cfg.LogScale("Bytes read per second") {
		t.Errorf("wrong log scale set")
	}
	if cfg.ProgressExperiment() != cfg.Experiments[0] {
		t.Errorf("progress should default to the first experiment")
	}
	fam, target := cfg.Analyses[1].Metrics[2].Family()
	if fam != benchunit.Duration || target != benchunit.Seconds {
		t.Errorf("compaction time parses as %v %v", fam, target)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	load := func(yaml string) (*Config, error) {
		t.Helper()
		path := filepath.Join(dir, "perfcmp.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0666); err != nil {
			t.Fatal(err)
		}
		return LoadConfig(path)
	}

	cfg, err := load(`
experiments:
  - name: base
    dir: run-1
  - name: test
    dir: run-2
smoothingWindow: 2.5
log: [Compaction write bytes]
progress:
  experiment: test
  perExperiment: true
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Experiments) != 2 || cfg.Experiments[1] != (Experiment{"test", "run-2"}) {
		t.Errorf("experiments %+v", cfg.Experiments)
	}
	if cfg.SmoothingWindow != 2.5 || !cfg.LogScale("Compaction write bytes") {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ProgressExperiment().Name != "test" || !cfg.Progress.PerExperiment {
		t.Errorf("progress %+v", cfg.Progress)
	}
	// Unset fields keep their defaults.
	if cfg.Progress.Pattern != Default().Progress.Pattern || len(cfg.Analyses) != 2 || cfg.Warn == nil {
		t.Errorf("defaults lost")
	}

	// An empty file is the default configuration.
	if _, err := load(""); err != nil {
		t.Errorf("empty file: %v", err)
	}

	bad := func(yaml, want string) {
		t.Helper()
		_, err := load(yaml)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("got %v, want error containing %q", err, want)
		}
	}
	bad("smoothingWindow: 0\n", "smoothing window")
	bad("smoothingwindow: 2\n", "not found")
	bad("experiments: []\n", "no experiments")
	bad("experiments: [{name: a, dir: x}, {name: a, dir: y}]\n", "duplicate")
	bad("magnitudes: [0]\n", "magnitude")
	bad("progress: {experiment: nope}\n", "not configured")
	bad("analyses: [{name: x, metrics: [{title: t, pattern: '*', kind: bytes, reduce: at}]}]\n", "unknown kind")
	bad("analyses: [{name: x, metrics: [{title: t, pattern: '*', kind: size, reduce: sum}]}]\n", "unknown reduction")
	bad("analyses: [{name: a/b}]\n", "bad name")

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not exist", err)
	}
}
