// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ozonebench/perfcmp/internal/diff"
)

const wantIndex = "# Range Compaction Benchmark Charts\n" +
	"\n" +
	"This document provides an overview of all the charts generated from the range compaction benchmark comparison.\n" +
	"\n" +
	"## Overview\n" +
	"\n" +
	"The benchmark compares 2 configurations:\n" +
	"- **A**: `a`\n" +
	"- **B**: `b`\n" +
	"\n" +
	"## Charts\n" +
	"\n" +
	"The following charts are available in the `comparison_charts` directory:\n" +
	"\n" +
	"### Compaction Metrics\n" +
	"- ![Compaction write bytes](comparison_charts/Compaction_write_bytes_comparison.png)\n" +
	"\n" +
	"### Seek Metrics\n" +
	"- ![Seek average latency](comparison_charts/Seek_average_latency_comparison.png)\n" +
	"- ![Seek max latency](comparison_charts/Seek_max_latency_comparison.png)\n" +
	"\n" +
	"## Notes\n" +
	"\n" +
	"- Smoothed metrics use a 1-minute rolling window\n" +
	"- The Seek average latency chart uses a logarithmic scale\n" +
	"- Time units are automatically adjusted based on the data range\n" +
	"- Size units are automatically adjusted based on the data range"

func TestWriteIndex(t *testing.T) {
	var warnings []string
	cfg := testConfig(&warnings)
	metrics := []string{"Seek max latency", "Compaction write bytes", "Seek average latency"}
	var buf bytes.Buffer
	if err := WriteIndex(&buf, cfg, "comparison_charts", metrics); err != nil {
		t.Fatal(err)
	}
	if d := diff.Diff(wantIndex, buf.String()); d != "" {
		t.Errorf("index differs:\n%s", d)
	}

	// Notes only mention log scales of charts that were written.
	buf.Reset()
	if err := WriteIndex(&buf, cfg, "comparison_charts", metrics[:2]); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "logarithmic") {
		t.Errorf("index notes a log scale for a chart it does not list:\n%s", buf.String())
	}
}

func TestCategory(t *testing.T) {
	check := func(metric, want string) {
		t.Helper()
		if got := Category(metric); got != want {
			t.Errorf("Category(%q) = %q, want %q", metric, got, want)
		}
	}
	check("Seek average latency", "Seek")
	check("Bytes", "Bytes")
	check("", "")
}

func TestWriteSummary(t *testing.T) {
	var warnings []string
	rec := assemble(t, seekScenario(t), testConfig(&warnings))
	var buf bytes.Buffer
	if err := WriteSummary(&buf, rec); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Seek Latency:\n",
		"10^6 Keys:\n",
		"~1,000,000",
		"~100,000",
		"5.0 ms",
		"0.1 ms",
		"50.0x",
		"Average Seek Latency",
		"10^7 Keys:\nnot enough experiments reached this magnitude\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary does not contain %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var warnings []string
	rec := assemble(t, seekScenario(t), testConfig(&warnings))
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*Record{rec}); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(rows[0], ","); got != "analysis,metric,magnitude,experiment,key_count,row,value,unit,missing,ratio" {
		t.Errorf("header = %s", got)
	}
	find := func(metric, label, exp string) []string {
		for _, r := range rows[1:] {
			if r[1] == metric && r[2] == label && r[3] == exp {
				return r
			}
		}
		return nil
	}
	check := func(metric, label, exp, want string) {
		t.Helper()
		r := find(metric, label, exp)
		if r == nil {
			t.Errorf("no row for %s %s %s", metric, label, exp)
			return
		}
		if got := strings.Join(r, ","); got != want {
			t.Errorf("got  %s\nwant %s", got, want)
		}
	}
	check("Average Seek Latency", "10^6", "B", "seek,Average Seek Latency,10^6,B,1000000,40,5000,Microseconds,false,50.0x")
	check("Average Seek Latency", "10^6", "A", "seek,Average Seek Latency,10^6,A,1000000,40,100,Microseconds,false,")
	check("Max Seek Latency", "10^5", "A", "seek,Max Seek Latency,10^5,A,100000,4,2000,Microseconds,false,")
	if r := find("Max Seek Latency", "10^6", "B"); r != nil {
		t.Errorf("unexpected row %v", r)
	}
	if r := find("Average Seek Latency", "10^7", "A"); r != nil {
		t.Errorf("unexpected row %v", r)
	}
	// Two metrics, two reached magnitudes: A has both metrics, B
	// only the average.
	if len(rows) != 1+6 {
		t.Errorf("got %d rows, want 7", len(rows))
	}
}

func TestWriteHTML(t *testing.T) {
	var warnings []string
	cfg := testConfig(&warnings)
	cfg.Experiments[1].Name = "<B>"
	rec := assemble(t, seekScenario(t), cfg)
	var buf bytes.Buffer
	if err := WriteHTML(&buf, []*Record{rec}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<B>") {
		t.Errorf("experiment name is not escaped:\n%s", out)
	}
	for _, want := range []string{"&lt;B&gt;", "<h2>Seek Latency</h2>", "<h3>10^6 keys</h3>", "50.0x", "1,000,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("page does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10^7 keys") {
		t.Errorf("page lists an unreached magnitude")
	}
}

func TestBarCharts(t *testing.T) {
	var warnings []string
	rec := assemble(t, seekScenario(t), testConfig(&warnings))
	plots, err := BarCharts(rec)
	if err != nil {
		t.Fatal(err)
	}
	if len(plots) != 2 {
		t.Fatalf("got %d plots, want 2", len(plots))
	}
	if got := plots[0].Title.Text; got != "Average Seek Latency" {
		t.Errorf("title = %q", got)
	}
	if got := plots[0].Y.Label.Text; got != "ms" {
		t.Errorf("y label = %q, want ms", got)
	}
	if got := plots[0].Y.Min; got != 1e-3 {
		t.Errorf("y min = %v, want 1e-3", got)
	}

	path := filepath.Join(t.TempDir(), "seek.png")
	if err := SaveBarCharts(rec, path, 30); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("chart not written: %v", err)
	}
}
