// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozonebench/perfcmp/benchmath"
	"github.com/ozonebench/perfcmp/benchseries"
)

func TestMagnitudeLabel(t *testing.T) {
	check := func(m float64, want string) {
		t.Helper()
		if got := MagnitudeLabel(m); got != want {
			t.Errorf("MagnitudeLabel(%v) = %q, want %q", m, got, want)
		}
	}
	check(1e5, "10^5")
	check(1e6, "10^6")
	check(1e7, "10^7")
	check(1, "10^0")
	check(2500, "10^3")
}

func assemble(t *testing.T, base string, cfg *Config) *Record {
	t.Helper()
	cat, err := NewCatalog(cfg, base)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := LoadProgress(cfg, cat)
	if err != nil {
		t.Fatal(err)
	}
	a := &cfg.Analyses[0]
	return Assemble(cfg, a, LoadInputs(cfg, cat, ps, a))
}

func TestAssembleSeekScenario(t *testing.T) {
	var warnings []string
	cfg := testConfig(&warnings)
	rec := assemble(t, seekScenario(t), cfg)

	rows, ok := rec.Ratios("Average Seek Latency", "10^6")
	if !ok {
		t.Fatalf("no ratios at 10^6")
	}
	if len(rows) != 2 || !rows[0].Baseline || rows[0].Experiment != "A" || rows[1].Experiment != "B" {
		t.Fatalf("got rows %+v", rows)
	}
	if r := rows[1].Ratio; r.Kind != benchmath.Finite || r.Value != 50 || r.String() != "50.0x" {
		t.Errorf("got ratio %v, want 50.0x", r)
	}
	ent := rec.Entry("B", "10^6")
	if ent.Index.Row != 40 || ent.Index.Progress != 1e6 {
		t.Errorf("10^6 matched %+v, want row 40", ent.Index)
	}
	if m := ent.Measurements["Average Seek Latency"]; m.Value != 5000 || m.Row != 40 {
		t.Errorf("got %+v, want 5000 at row 40", m)
	}
	if e := rec.Entry("A", "10^5"); e == nil || e.Index.Row != 4 {
		t.Errorf("10^5 matched %+v, want row 4", e)
	}

	// 10^7 is never reached.
	if rec.Entry("A", "10^7") != nil {
		t.Errorf("unexpected entry at 10^7")
	}
	if _, ok := rec.Ratios("Average Seek Latency", "10^7"); ok {
		t.Errorf("ratios at an unreached magnitude")
	}

	// Seek max latency exists only for A: B's entry omits it, and
	// no ratio is computed.
	if _, ok := rec.Entry("B", "10^6").Measurements["Max Seek Latency"]; ok {
		t.Errorf("B has a measurement for a missing file")
	}
	if m := rec.Entry("A", "10^6").Measurements["Max Seek Latency"]; m == nil || m.Value != 2000 {
		t.Errorf("A's max latency = %+v, want 2000", m)
	}
	if _, ok := rec.Ratios("Max Seek Latency", "10^6"); ok {
		t.Errorf("ratios with a single experiment")
	}

	want := []string{"not reached", "metric file not found"}
	for _, w := range want {
		found := false
		for _, got := range warnings {
			if strings.Contains(got, w) {
				found = true
			}
		}
		if !found {
			t.Errorf("no warning containing %q in %q", w, warnings)
		}
	}
}

func TestAssembleReducers(t *testing.T) {
	base := t.TempDir()
	writeCSV(t, filepath.Join(base, "a", "KeyTable Estimated number of keys-data.csv"), keyCounts())
	writeCSV(t, filepath.Join(base, "a", "Compaction write bytes-data.csv"), series(50, func(i int) string {
		switch {
		case i == 2:
			return "1 GB"
		case i == 4:
			return "bogus"
		}
		return "512 kB"
	}))
	writeCSV(t, filepath.Join(base, "a", "Compaction time average-data.csv"), series(3, constant("1500 ms")))
	// B never writes.
	writeCSV(t, filepath.Join(base, "b", "Compaction write bytes-data.csv"), series(50, constant("0 B")))
	writeCSV(t, filepath.Join(base, "b", "Compaction time average-data.csv"), series(50, constant("2 s")))

	var warnings []string
	cfg := testConfig(&warnings)
	cfg.Analyses = Default().Analyses[1:]
	rec := assemble(t, base, cfg)

	a := rec.Entry("A", "10^5")
	if a == nil {
		t.Fatalf("no entry for A at 10^5")
	}
	// Row 4 cannot be parsed: it is a missing zero.
	if m := a.Measurements["Average Compaction Write Bytes"]; !m.Missing || m.Value != 0 || m.Row != 4 {
		t.Errorf("average write bytes = %+v, want missing 0 at row 4", m)
	}
	if m := a.Measurements["Max Compaction Write Bytes"]; m.Value != 1024 || m.Missing {
		t.Errorf("max write bytes = %+v, want 1024", m)
	}
	// The time file has 3 rows; row 4 is clamped to row 2.
	if m := a.Measurements["Compaction Time Average"]; m.Value != 1.5 || m.Row != 2 {
		t.Errorf("time = %+v, want 1.5 s at row 2", m)
	}

	rows, ok := rec.Ratios("Max Compaction Write Bytes", "10^5")
	if !ok || rows[1].Ratio.String() != "0.0x" {
		t.Errorf("max write bytes ratios = %+v", rows)
	}
	rows, ok = rec.Ratios("Average Compaction Write Bytes", "10^5")
	if !ok || rows[1].Ratio.String() != "-" {
		t.Errorf("zero over zero = %+v, want -", rows)
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "row 4") && strings.Contains(w, ErrParse.Error()) {
			found = true
		}
	}
	if !found {
		t.Errorf("no parse warning in %q", warnings)
	}
}

func TestRatiosUnbounded(t *testing.T) {
	a := &Analysis{Name: "x", Metrics: []MetricSpec{{"T", "*.csv", "seconds", "at"}}}
	entry := func(exp string, v float64) *Entry {
		return &Entry{
			Experiment:   exp,
			Magnitude:    "10^5",
			Index:        benchseries.ProgressIndex{Target: 1e5, Row: 1, Progress: 1e5},
			Measurements: map[string]*Measurement{"T": {Metric: "T", Value: v}},
		}
	}
	rec := &Record{
		Analysis:    a,
		Baseline:    "A",
		Experiments: []string{"A", "B", "C"},
		Labels:      []string{"10^5"},
		Entries: map[string]map[string]*Entry{
			"A": {"10^5": entry("A", 0)},
			"B": {"10^5": entry("B", 2)},
			"C": {"10^5": entry("C", 0)},
		},
	}
	rows, ok := rec.Ratios("T", "10^5")
	if !ok || len(rows) != 3 {
		t.Fatalf("got %+v, %v", rows, ok)
	}
	if got := rows[1].Ratio.String(); got != "∞x" {
		t.Errorf("B: got %s, want ∞x", got)
	}
	if got := rows[2].Ratio.String(); got != "-" {
		t.Errorf("C: got %s, want -", got)
	}

	// Without the baseline there is nothing to compare.
	delete(rec.Entries, "A")
	if _, ok := rec.Ratios("T", "10^5"); ok {
		t.Errorf("ratios without a baseline")
	}
}
