// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testConfig returns a configuration comparing experiments A (the
// baseline) and B, in directories a and b. Warnings are appended to
// *warnings.
func testConfig(warnings *[]string) *Config {
	cfg := Default()
	cfg.Experiments = []Experiment{{"A", "a"}, {"B", "b"}}
	cfg.Analyses = []Analysis{{
		Name:  "seek",
		Title: "Seek Latency",
		Metrics: []MetricSpec{
			{"Average Seek Latency", "Seek average latency*.csv", "duration", "at"},
			{"Max Seek Latency", "Seek max latency*.csv", "duration", "at"},
		},
	}}
	cfg.DPI = 30
	cfg.Warn = func(format string, args ...interface{}) {
		*warnings = append(*warnings, fmt.Sprintf(format, args...))
	}
	cfg.Infof = nil
	return cfg
}

var testStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// series returns CSV rows, with a header, of n values taken one
// minute apart.
func series(n int, value func(i int) string) [][]string {
	rows := [][]string{{"Time", "Value"}}
	for i := 0; i < n; i++ {
		ts := testStart.Add(time.Duration(i) * time.Minute).Format("2006-01-02 15:04:05")
		rows = append(rows, []string{ts, value(i)})
	}
	return rows
}

func constant(s string) func(int) string {
	return func(int) string { return s }
}

// keyCounts returns a progress series that reaches 10^5 at row 4 and
// 10^6 at row 40, and never reaches 10^7.
func keyCounts() [][]string {
	return series(50, func(i int) string { return fmt.Sprint(i * 25000) })
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	w.WriteAll(rows)
	if err := w.Error(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// seekScenario writes experiments a and b under a new directory and
// returns it. Seek average latency is 100 µs in a and 5000 µs in b;
// Seek max latency exists only in a.
func seekScenario(t *testing.T) string {
	base := t.TempDir()
	writeCSV(t, filepath.Join(base, "a", "KeyTable Estimated number of keys-data-1.csv"), keyCounts())
	writeCSV(t, filepath.Join(base, "a", "Seek average latency-data-1.csv"), series(50, constant("100 µs")))
	writeCSV(t, filepath.Join(base, "b", "Seek average latency-data-2.csv"), series(50, constant("5000 µs")))
	writeCSV(t, filepath.Join(base, "a", "Seek max latency-data-1.csv"), series(50, constant("2 ms")))
	return base
}
