// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ozonebench/perfcmp/benchunit"
	"gopkg.in/yaml.v3"
)

// An Experiment is one benchmark configuration: a display name and the
// directory, relative to the base directory, holding its metric files.
type Experiment struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

// A MetricSpec selects one metric of a magnitude analysis.
type MetricSpec struct {
	Title   string `yaml:"title"`   // Display title, e.g. "Average Seek Latency"
	Pattern string `yaml:"pattern"` // Glob matching the metric file in an experiment directory

	// Kind is how values are parsed: "size" (megabytes),
	// "duration" (microseconds), "seconds" or "plain".
	Kind string `yaml:"kind"`

	// Reduce is how the value at a magnitude is taken: "at" for the
	// value at the matched row, "max" for the largest value up to
	// and including that row.
	Reduce string `yaml:"reduce"`
}

var metricKinds = map[string]struct {
	family benchunit.Family
	target benchunit.Canonical
}{
	"size":     {benchunit.Size, benchunit.Megabytes},
	"duration": {benchunit.Duration, benchunit.Microseconds},
	"seconds":  {benchunit.Duration, benchunit.Seconds},
	"plain":    {benchunit.Plain, benchunit.Dimensionless},
}

// Family returns the unit family and canonical unit of values of m.
func (m *MetricSpec) Family() (benchunit.Family, benchunit.Canonical) {
	k, ok := metricKinds[m.Kind]
	if !ok {
		panic(fmt.Sprintf("bad metric kind %q", m.Kind))
	}
	return k.family, k.target
}

// An Analysis compares a set of metrics across configurations at each
// target magnitude of the progress series.
type Analysis struct {
	Name    string       `yaml:"name"`  // Output file stem
	Title   string       `yaml:"title"` // Summary heading
	Metrics []MetricSpec `yaml:"metrics"`
}

// ProgressConfig locates the reference progress series.
type ProgressConfig struct {
	Pattern string `yaml:"pattern"`

	// Experiment names the experiment whose progress file is the
	// shared reference. The default is the first experiment.
	Experiment string `yaml:"experiment"`

	// PerExperiment aligns each experiment on its own progress file,
	// falling back to the shared reference when it has none.
	PerExperiment bool `yaml:"perExperiment"`
}

// Config is the fixed configuration of a comparison run. It is built
// once, by Default or LoadConfig, and not modified afterwards.
type Config struct {
	Title string `yaml:"title"`

	// Experiments lists the configurations to compare. The first is
	// the baseline of every ratio.
	Experiments []Experiment `yaml:"experiments"`

	Smooth          []string `yaml:"smooth"`          // Metrics smoothed over time
	Log             []string `yaml:"log"`             // Metrics drawn on a log scale
	SmoothingWindow float64  `yaml:"smoothingWindow"` // Minutes

	Magnitudes []float64      `yaml:"magnitudes"`
	Progress   ProgressConfig `yaml:"progress"`
	Analyses   []Analysis     `yaml:"analyses"`

	ChartDir string `yaml:"chartDir"` // Chart directory, relative to the base directory
	DPI      int    `yaml:"dpi"`

	// Warn reports recoverable problems. Infof reports progress.
	Warn  func(format string, args ...interface{}) `yaml:"-"`
	Infof func(format string, args ...interface{}) `yaml:"-"`
}

// Default returns the built-in configuration, comparing range
// compaction settings of a storage engine benchmark.
func Default() *Config {
	return &Config{
		Title: "Range Compaction Benchmark Charts",
		Experiments: []Experiment{
			{"Enable Range Compaction", "100M-20:8:1:enable-range-compaction:disable-peridioc-full-compaction"},
			{"Disable Range Compaction", "100M-20:8:1:disable-range-compaction:disable-peridioc-full-compaction"},
			{"Disable Range Compaction + Periodic Full Compaction", "100M-20:8:1:disable-range-compaction:enable-peridioc-full-compaction"},
		},
		Smooth: []string{
			"Bytes read per second",
			"Bytes write per second",
			"Compaction read bytes",
			"Compaction write bytes",
			"Flush write bytes",
			"Flush write median latency",
			"Number of keys read per second",
			"Number of keys written per second",
			"Number of next per second",
			"Number of seeks per second",
		},
		Log:             []string{"Seek average latency"},
		SmoothingWindow: 1,
		Magnitudes:      []float64{1e5, 1e6, 1e7},
		Progress: ProgressConfig{
			Pattern: "KeyTable Estimated number of keys*.csv",
		},
		Analyses: []Analysis{
			{
				Name:  "seek_latency_over_key_count",
				Title: "Seek Latency Analysis by Order of Magnitude",
				Metrics: []MetricSpec{
					{"Average Seek Latency", "Seek average latency*.csv", "duration", "at"},
					{"Max Seek Latency", "Seek max latency*.csv", "duration", "at"},
				},
			},
			{
				Name:  "compaction_metrics_over_key_count",
				Title: "Compaction Performance Analysis by Order of Magnitude",
				Metrics: []MetricSpec{
					{"Average Compaction Write Bytes", "Compaction write bytes*.csv", "size", "at"},
					{"Max Compaction Write Bytes", "Compaction write bytes*.csv", "size", "max"},
					{"Compaction Time Average", "Compaction time average*.csv", "seconds", "at"},
				},
			},
		},
		ChartDir: "comparison_charts",
		DPI:      150,
		Warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format, args...)
		},
		Infof: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stdout, format, args...)
		},
	}
}

// LoadConfig reads a YAML configuration file. Settings in the file
// replace the corresponding defaults; lists are replaced, not merged.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that c is usable.
func (c *Config) Validate() error {
	if len(c.Experiments) == 0 {
		return errors.New("no experiments configured")
	}
	names := make(map[string]bool)
	for _, e := range c.Experiments {
		if e.Name == "" || e.Dir == "" {
			return fmt.Errorf("experiment %q: name and dir are required", e.Name)
		}
		if names[e.Name] {
			return fmt.Errorf("duplicate experiment %q", e.Name)
		}
		names[e.Name] = true
	}
	if !(c.SmoothingWindow > 0) {
		return fmt.Errorf("smoothing window must be positive, not %v", c.SmoothingWindow)
	}
	for _, m := range c.Magnitudes {
		if !(m >= 1) {
			return fmt.Errorf("magnitude %v must be at least 1", m)
		}
	}
	if c.Progress.Pattern == "" {
		return errors.New("progress pattern is required")
	}
	if e := c.Progress.Experiment; e != "" && !names[e] {
		return fmt.Errorf("progress experiment %q is not configured", e)
	}
	for _, a := range c.Analyses {
		if a.Name == "" || strings.ContainsAny(a.Name, `/\`) {
			return fmt.Errorf("analysis %q: bad name", a.Name)
		}
		for _, m := range a.Metrics {
			if _, ok := metricKinds[m.Kind]; !ok {
				return fmt.Errorf("analysis %s: metric %q: unknown kind %q", a.Name, m.Title, m.Kind)
			}
			if m.Reduce != "at" && m.Reduce != "max" {
				return fmt.Errorf("analysis %s: metric %q: unknown reduction %q", a.Name, m.Title, m.Reduce)
			}
			if m.Pattern == "" {
				return fmt.Errorf("analysis %s: metric %q: pattern is required", a.Name, m.Title)
			}
		}
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, not %d", c.DPI)
	}
	return nil
}

// Baseline returns the baseline experiment.
func (c *Config) Baseline() Experiment {
	return c.Experiments[0]
}

// ProgressExperiment returns the experiment holding the shared
// progress series.
func (c *Config) ProgressExperiment() Experiment {
	for _, e := range c.Experiments {
		if e.Name == c.Progress.Experiment {
			return e
		}
	}
	return c.Experiments[0]
}

// Smoothed reports whether metric is smoothed over time.
func (c *Config) Smoothed(metric string) bool {
	return contains(c.Smooth, metric)
}

// LogScale reports whether metric is drawn on a log scale.
func (c *Config) LogScale(metric string) bool {
	return contains(c.Log, metric)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (c *Config) warn(format string, args ...interface{}) {
	if c.Warn != nil {
		c.Warn(format, args...)
	}
}

func (c *Config) infof(format string, args ...interface{}) {
	if c.Infof != nil {
		c.Infof(format, args...)
	}
}
