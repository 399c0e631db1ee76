// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit parses human-readable benchmark measurements such
// as "12.5 MB" or "300 µs" into canonical numeric values, classifies
// columns of such measurements, and picks display units for them.
//
// Sizes are canonicalized to megabytes (binary, 1 GB = 1024 MB) and
// durations to microseconds or seconds, depending on the caller.
package benchunit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A Canonical is the unit of a parsed Value.
type Canonical int

const (
	Dimensionless Canonical = iota
	Megabytes
	Microseconds
	Seconds
)

func (c Canonical) String() string {
	switch c {
	case Dimensionless:
		return "Dimensionless"
	case Megabytes:
		return "Megabytes"
	case Microseconds:
		return "Microseconds"
	case Seconds:
		return "Seconds"
	}
	return fmt.Sprintf("Canonical(%d)", int(c))
}

// A Value is a measurement converted to a canonical unit.
//
// A Value whose Num is NaN is missing: the text it came from could not
// be parsed.
type Value struct {
	Num  float64
	Unit Canonical
}

// Missing returns a missing Value in unit u.
func Missing(u Canonical) Value {
	return Value{math.NaN(), u}
}

// Missing reports whether v could not be parsed.
func (v Value) Missing() bool {
	return math.IsNaN(v.Num)
}

// A ParseError records why a measurement could not be parsed.
type ParseError struct {
	Text   string // input, as given
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Text, e.Reason)
}

// clean strips surrounding whitespace and quote characters.
func clean(text string) string {
	return strings.Trim(text, " \t\r\n\"'")
}

func parseNum(text, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{text, fmt.Sprintf("bad number %q", s)}
	}
	if math.IsNaN(v) {
		return 0, &ParseError{text, "not a number"}
	}
	return v, nil
}

// ParseSize parses a size of the form "<number> <unit>" and returns it
// in megabytes. Recognized units are GB, MB, KB and B, in any case.
// Malformed input yields a missing Value.
func ParseSize(text string) Value {
	v, _ := ParseSizeErr(text)
	return v
}

// ParseSizeErr is like ParseSize, but also returns the reason text
// could not be parsed.
func ParseSizeErr(text string) (Value, error) {
	s := clean(text)
	if s == "0 B" {
		return Value{0, Megabytes}, nil
	}
	toks := strings.Fields(s)
	if len(toks) != 2 {
		return Missing(Megabytes), &ParseError{text, "expected \"number unit\""}
	}
	num, err := parseNum(text, toks[0])
	if err != nil {
		return Missing(Megabytes), err
	}
	switch strings.ToUpper(toks[1]) {
	case "GB":
		return Value{num * 1024, Megabytes}, nil
	case "MB":
		return Value{num, Megabytes}, nil
	case "KB":
		return Value{num / 1024, Megabytes}, nil
	case "B":
		return Value{num / (1024 * 1024), Megabytes}, nil
	}
	return Missing(Megabytes), &ParseError{text, fmt.Sprintf("unknown size unit %q", toks[1])}
}

// durationSuffixes lists duration suffixes in match order. Matching is
// by containment, so longer suffixes ending in "s" must precede "s".
var durationSuffixes = []struct {
	suffix string
	us     float64 // microseconds per unit
}{
	{"ns", 1e-3},
	{"µs", 1}, // U+00B5 MICRO SIGN
	{"μs", 1}, // U+03BC GREEK SMALL LETTER MU
	{"us", 1},
	{"ms", 1e3},
	{"s", 1e6},
}

// ParseDuration parses a duration such as "1.5 ms" and returns it in
// target, which must be Microseconds or Seconds. A number with no
// recognized suffix is taken to already be in target units.
// Malformed input yields a missing Value.
func ParseDuration(text string, target Canonical) Value {
	v, _ := ParseDurationErr(text, target)
	return v
}

// ParseDurationErr is like ParseDuration, but also returns the reason
// text could not be parsed.
func ParseDurationErr(text string, target Canonical) (Value, error) {
	var perUS float64
	switch target {
	case Microseconds:
		perUS = 1
	case Seconds:
		perUS = 1e-6
	default:
		panic(fmt.Sprintf("bad duration target %v", target))
	}

	s := clean(text)
	for _, d := range durationSuffixes {
		i := strings.Index(s, d.suffix)
		if i < 0 {
			continue
		}
		num, err := parseNum(text, strings.TrimSpace(s[:i]+s[i+len(d.suffix):]))
		if err != nil {
			return Missing(target), err
		}
		return Value{num * d.us * perUS, target}, nil
	}
	num, err := parseNum(text, s)
	if err != nil {
		return Missing(target), err
	}
	return Value{num, target}, nil
}

// ParsePlain parses a plain number. Malformed input yields a missing
// Value.
func ParsePlain(text string) Value {
	v, _ := ParsePlainErr(text)
	return v
}

// ParsePlainErr is like ParsePlain, but also returns the reason text
// could not be parsed.
func ParsePlainErr(text string) (Value, error) {
	num, err := parseNum(text, clean(text))
	if err != nil {
		return Missing(Dimensionless), err
	}
	return Value{num, Dimensionless}, nil
}
