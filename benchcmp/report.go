// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml/template"
	"github.com/ozonebench/perfcmp/benchseries"
	"github.com/ozonebench/perfcmp/benchunit"
	"github.com/ozonebench/perfcmp/internal/texttab"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var printer = message.NewPrinter(language.English)

// formatCount formats a progress value with thousands separators.
func formatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Category returns the category of metric in the chart index: its
// first word.
func Category(metric string) string {
	if f := strings.Fields(metric); len(f) > 0 {
		return f[0]
	}
	return metric
}

// WriteIndex writes the markdown index of the charts of metrics, which
// are in chartDir relative to the index.
func WriteIndex(w io.Writer, cfg *Config, chartDir string, metrics []string) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
		bw.WriteByte('\n')
	}
	p("# %s\n", cfg.Title)
	p("This document provides an overview of all the charts generated from the %s comparison.\n", strings.ToLower(strings.TrimSuffix(cfg.Title, " Charts")))
	p("## Overview\n")
	p("The benchmark compares %d configurations:", len(cfg.Experiments))
	for i, e := range cfg.Experiments {
		if i == len(cfg.Experiments)-1 {
			p("- **%s**: `%s`\n", e.Name, e.Dir)
		} else {
			p("- **%s**: `%s`", e.Name, e.Dir)
		}
	}
	p("## Charts\n")
	p("The following charts are available in the `%s` directory:\n", chartDir)

	byCat := make(map[string][]string)
	for _, m := range metrics {
		c := Category(m)
		byCat[c] = append(byCat[c], m)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		p("### %s Metrics", c)
		ms := byCat[c]
		sort.Strings(ms)
		for _, m := range ms {
			p("- ![%s](%s)", m, path.Join(chartDir, ChartFile(m)))
		}
		p("")
	}

	p("## Notes\n")
	p("- Smoothed metrics use a %s-minute rolling window", strconv.FormatFloat(cfg.SmoothingWindow, 'g', -1, 64))
	for _, m := range cfg.Log {
		if contains(metrics, m) {
			p("- The %s chart uses a logarithmic scale", m)
		}
	}
	p("- Time units are automatically adjusted based on the data range")
	fmt.Fprintf(bw, "- Size units are automatically adjusted based on the data range")
	return bw.Flush()
}

// WriteSummary writes a text table per magnitude of r comparing each
// experiment's metrics with the baseline.
func WriteSummary(w io.Writer, r *Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s:\n%s\n", r.Analysis.Title, strings.Repeat("=", 70))

	units := make(map[string]benchunit.Unit)
	for _, m := range r.Analysis.Metrics {
		units[m.Title] = r.Unit(m.Title)
	}

	for _, label := range r.Labels {
		fmt.Fprintf(bw, "\n%s Keys:\n", label)
		ratios := make(map[string][]RatioRow)
		for _, m := range r.Analysis.Metrics {
			if rows, ok := r.Ratios(m.Title, label); ok {
				ratios[m.Title] = rows
			}
		}
		if len(ratios) == 0 {
			fmt.Fprintf(bw, "not enough experiments reached this magnitude\n")
			continue
		}

		var tab texttab.Table
		tab.Row().Cell("").Cell("")
		for _, m := range r.Analysis.Metrics {
			tab.Span(2, m.Title, texttab.Center, texttab.LeftMargin(" │ "))
		}
		tab.Row().Cell("experiment").Cell("key count", texttab.Right)
		for range r.Analysis.Metrics {
			tab.Cell("value", texttab.Right, texttab.LeftMargin(" │ ")).Cell("vs base", texttab.Right)
		}
		tab.Rule('─')
		for _, exp := range r.Experiments {
			ent := r.Entry(exp, label)
			if ent == nil {
				continue
			}
			tab.Row().Cell(exp).Cell("~"+formatCount(ent.Index.Progress), texttab.Right)
			for _, m := range r.Analysis.Metrics {
				row, ok := findRow(ratios[m.Title], exp)
				if !ok {
					tab.Cell("", texttab.LeftMargin(" │ ")).Cell("")
					continue
				}
				tab.Cell(units[m.Title].Format(row.Value, 1), texttab.Right, texttab.LeftMargin(" │ "))
				if row.Baseline {
					tab.Cell("")
				} else {
					tab.Cell(row.Ratio.String(), texttab.Right)
				}
			}
		}
		if err := tab.Format(bw); err != nil {
			return err
		}
	}
	fmt.Fprintf(bw, "\n%s\n", strings.Repeat("=", 70))
	return bw.Flush()
}

func findRow(rows []RatioRow, exp string) (RatioRow, bool) {
	for _, r := range rows {
		if r.Experiment == exp {
			return r, true
		}
	}
	return RatioRow{}, false
}

// BarCharts returns one grouped bar chart per metric of r, with
// magnitudes as groups and experiments as bars. Bars of experiments
// other than the baseline are annotated with their ratio.
func BarCharts(r *Record) ([]*plot.Plot, error) {
	var plots []*plot.Plot
	for _, spec := range r.Analysis.Metrics {
		unit := r.Unit(spec.Title)
		fam, _ := spec.Family()
		bc := &benchseries.BarChart{
			Title:  spec.Title,
			YLabel: unit.Label,
			Groups: r.Labels,
			Floor:  1e-3,
		}
		if fam == benchunit.Size {
			bc.Floor = 1e-4
		}
		for _, exp := range r.Experiments {
			set := benchseries.BarSet{
				Label:  exp,
				Values: make([]float64, len(r.Labels)),
				Notes:  make([]string, len(r.Labels)),
			}
			for i, label := range r.Labels {
				set.Values[i] = math.NaN()
				if ent := r.Entry(exp, label); ent != nil {
					if m, ok := ent.Measurements[spec.Title]; ok {
						set.Values[i] = m.Value * unit.Scale
					}
				}
				if rows, ok := r.Ratios(spec.Title, label); ok {
					if row, ok := findRow(rows, exp); ok && !row.Baseline && row.Ratio.Defined() {
						set.Notes[i] = row.Ratio.String()
					}
				}
			}
			bc.Sets = append(bc.Sets, set)
		}
		pl, err := bc.Plot()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Title, err)
		}
		plots = append(plots, pl)
	}
	return plots, nil
}

// SaveBarCharts writes the bar charts of r to a PNG file.
func SaveBarCharts(r *Record, path string, dpi int) error {
	plots, err := BarCharts(r)
	if err != nil {
		return err
	}
	if len(plots) == 0 {
		return fmt.Errorf("%s: no metrics", r.Analysis.Name)
	}
	return benchseries.SavePNG(path, 10*vg.Inch, vg.Length(len(plots))*4*vg.Inch, dpi, plots...)
}

// A Row is one measurement of a record, flattened for export.
type Row struct {
	Analysis   string
	Metric     string
	Magnitude  string
	Experiment string
	KeyCount   float64 // Progress at the matched row
	Row        int
	Value      float64 // In Unit
	Unit       string  // Name of the canonical unit
	Missing    bool
	Ratio      string // Empty for the baseline and when nothing is compared
}

// Rows returns every measurement of r, ordered by metric, magnitude and
// experiment.
func (r *Record) Rows() []Row {
	var out []Row
	for _, spec := range r.Analysis.Metrics {
		for _, label := range r.Labels {
			ratios, ok := r.Ratios(spec.Title, label)
			for _, exp := range r.Experiments {
				ent := r.Entry(exp, label)
				if ent == nil {
					continue
				}
				m, present := ent.Measurements[spec.Title]
				if !present {
					continue
				}
				row := Row{
					Analysis:   r.Analysis.Name,
					Metric:     spec.Title,
					Magnitude:  label,
					Experiment: exp,
					KeyCount:   ent.Index.Progress,
					Row:        m.Row,
					Value:      m.Value,
					Unit:       m.Unit.String(),
					Missing:    m.Missing,
				}
				if ok {
					if rr, found := findRow(ratios, exp); found && !rr.Baseline {
						row.Ratio = rr.Ratio.String()
					}
				}
				out = append(out, row)
			}
		}
	}
	return out
}

// WriteCSV writes every measurement of recs as CSV, one row per
// analysis, metric, magnitude and experiment. Values are in canonical
// units: megabytes, microseconds or seconds.
func WriteCSV(w io.Writer, recs []*Record) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"analysis", "metric", "magnitude", "experiment", "key_count", "row", "value", "unit", "missing", "ratio"})
	for _, r := range recs {
		for _, row := range r.Rows() {
			cw.Write([]string{
				row.Analysis,
				row.Metric,
				row.Magnitude,
				row.Experiment,
				strconv.FormatFloat(row.KeyCount, 'f', -1, 64),
				strconv.Itoa(row.Row),
				strconv.FormatFloat(row.Value, 'g', -1, 64),
				row.Unit,
				strconv.FormatBool(row.Missing),
				row.Ratio,
			})
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark comparison</title>
</head>
<body>
{{- range .}}
<h2>{{.Title}}</h2>
{{- range .Magnitudes}}
<h3>{{.Label}} keys</h3>
<table>
<tr><th>experiment<th>key count{{range .Metrics}}<th>{{.}}<th>vs base{{end}}
{{- range .Rows}}
<tr><td>{{.Experiment}}<td>{{.KeyCount}}{{range .Cells}}<td>{{.Value}}<td>{{.Ratio}}{{end}}
{{- end}}
</table>
{{- end}}
{{- end}}
</body>
</html>
`))

type htmlAnalysis struct {
	Title      string
	Magnitudes []htmlMagnitude
}

type htmlMagnitude struct {
	Label   string
	Metrics []string
	Rows    []htmlRow
}

type htmlRow struct {
	Experiment string
	KeyCount   string
	Cells      []htmlCell
}

type htmlCell struct {
	Value, Ratio string
}

// WriteHTML writes the summaries of recs as an HTML page.
func WriteHTML(w io.Writer, recs []*Record) error {
	var data []htmlAnalysis
	for _, r := range recs {
		ha := htmlAnalysis{Title: r.Analysis.Title}
		for _, label := range r.Labels {
			hm := htmlMagnitude{Label: label}
			ratios := make(map[string][]RatioRow)
			for _, spec := range r.Analysis.Metrics {
				hm.Metrics = append(hm.Metrics, spec.Title)
				if rows, ok := r.Ratios(spec.Title, label); ok {
					ratios[spec.Title] = rows
				}
			}
			if len(ratios) == 0 {
				continue
			}
			for _, exp := range r.Experiments {
				ent := r.Entry(exp, label)
				if ent == nil {
					continue
				}
				hr := htmlRow{Experiment: exp, KeyCount: formatCount(ent.Index.Progress)}
				for _, spec := range r.Analysis.Metrics {
					var c htmlCell
					if row, ok := findRow(ratios[spec.Title], exp); ok {
						c.Value = r.Unit(spec.Title).Format(row.Value, 1)
						if !row.Baseline {
							c.Ratio = row.Ratio.String()
						}
					}
					hr.Cells = append(hr.Cells, c)
				}
				hm.Rows = append(hm.Rows, hr)
			}
			ha.Magnitudes = append(ha.Magnitudes, hm)
		}
		data = append(data, ha)
	}
	return htmlTemplate.Execute(w, data)
}
