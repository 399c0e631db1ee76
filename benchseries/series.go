// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries reads per-metric benchmark series from CSV
// files, smooths and aligns them, and renders comparison charts.
//
// Each CSV file has a header row. The first column is a timestamp and
// the last column holds the metric's value, usually carrying a unit
// suffix such as "12.5 MB" or "300 µs".
package benchseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
)

// ErrNoHeader is returned when a CSV file has no header row.
var ErrNoHeader = errors.New("missing header row")

// A Series is the measurements of one metric for one configuration.
// A Series is not modified after it is read.
type Series struct {
	Metric string   // Metric name, from the file name
	Header []string // CSV header row

	// Times and Values are the first and the last column of each
	// row, unparsed. They have the same length.
	Times  []string
	Values []string
}

// MetricName returns the metric name encoded in a CSV file name:
// the file's base name without extension, up to the first "-data-".
func MetricName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.Index(stem, "-data-"); i >= 0 {
		stem = stem[:i]
	}
	return stem
}

// ReadFile reads the Series in the CSV file at path. The metric name
// is derived from the file name.
func ReadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadCSV(f, MetricName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadCSV reads a Series from CSV data. A header row is required. Rows
// may have fewer fields than the header; missing fields read as "".
// A file with only a header yields an empty Series.
func ReadCSV(r io.Reader, metric string) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 || len(recs[0]) == 0 {
		return nil, ErrNoHeader
	}
	header := recs[0]
	rows := recs[1:]
	for i, row := range rows {
		if len(row) != len(header) {
			fixed := make([]string, len(header))
			copy(fixed, row)
			rows[i] = fixed
		}
	}

	tab := table.TableFromStrings(columnNames(header), rows, false)
	names := tab.Columns()
	s := &Series{
		Metric: metric,
		Header: header,
		Times:  tab.MustColumn(names[0]).([]string),
		Values: tab.MustColumn(names[len(names)-1]).([]string),
	}
	return s, nil
}

// columnNames returns header with empty and repeated names made
// unique, so every CSV column maps to its own table column.
func columnNames(header []string) []string {
	seen := make(map[string]bool)
	names := make([]string, len(header))
	for i, h := range header {
		name := h
		if name == "" || seen[name] {
			name = fmt.Sprintf("%s#%d", h, i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// Len returns the number of rows in s.
func (s *Series) Len() int {
	return len(s.Values)
}

// ValueColumn returns the name of the value column.
func (s *Series) ValueColumn() string {
	return s.Header[len(s.Header)-1]
}

// Sample returns the first value of s, which decides how the whole
// series is parsed.
func (s *Series) Sample() (string, bool) {
	if len(s.Values) == 0 {
		return "", false
	}
	return s.Values[0], true
}

// Offsets returns, for each row, the number of minutes elapsed since
// the first row with a valid timestamp. Rows whose timestamp cannot be
// parsed get NaN. It is an error if no row has a valid timestamp.
func (s *Series) Offsets() ([]float64, error) {
	out := make([]float64, len(s.Times))
	var start time.Time
	found := false
	var firstErr error
	for i, ts := range s.Times {
		t, err := ParseTime(ts)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			out[i] = math.NaN()
			continue
		}
		if !found {
			start, found = t, true
		}
		out[i] = t.Sub(start).Minutes()
	}
	if !found && len(s.Times) > 0 {
		return nil, firstErr
	}
	return out, nil
}

var noPuncDate = regexp.MustCompile("^[0-9]{8}T[0-9]{6}$")

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05.999999999",
	"01/02/2006 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime parses a CSV timestamp. It accepts RFC 3339 and the common
// date-time layouts emitted by metric exporters, compact timestamps
// such as 20211229T213212, and Unix epochs in seconds or milliseconds.
// Times without a zone are taken to be UTC.
func ParseTime(text string) (time.Time, error) {
	s := strings.Trim(text, " \t\"'")
	if noPuncDate.MatchString(s) {
		//20211229T213212
		//2021-12-29T21:32:12
		s = s[0:4] + "-" + s[4:6] + "-" + s[6:11] + ":" + s[11:13] + ":" + s[13:15]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if math.Abs(f) >= 1e12 {
			return time.UnixMilli(int64(f)).UTC(), nil
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", text)
}
