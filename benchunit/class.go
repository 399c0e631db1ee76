// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"fmt"
	"strings"
)

// A Family is the kind of measurement held by a column of values.
type Family int

const (
	// Plain columns hold bare numbers.
	Plain Family = iota
	// Size columns hold sizes such as "1.5 GB".
	Size
	// Duration columns hold durations such as "300 µs".
	Duration
)

func (f Family) String() string {
	switch f {
	case Plain:
		return "Plain"
	case Size:
		return "Size"
	case Duration:
		return "Duration"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// classRules are tried in order; the first rule with a matching
// substring decides the family. Size must come before Duration: "b"
// and "s" both occur in many samples.
var classRules = []struct {
	family Family
	subs   []string
}{
	{Size, []string{"mb", "gb", "kb", "b"}},
	{Duration, []string{"μs", "µs", "ms", "ns", "s", "latency"}},
}

// Classify returns the Family of a column given a representative
// sample, normally its first value.
func Classify(sample string) Family {
	s := strings.ToLower(sample)
	for _, rule := range classRules {
		for _, sub := range rule.subs {
			if strings.Contains(s, sub) {
				return rule.family
			}
		}
	}
	return Plain
}

var parsers = [...]func(text string, target Canonical) (Value, error){
	Plain: func(text string, _ Canonical) (Value, error) { return ParsePlainErr(text) },
	Size:  func(text string, _ Canonical) (Value, error) { return ParseSizeErr(text) },
	Duration: func(text string, target Canonical) (Value, error) {
		if target != Seconds {
			target = Microseconds
		}
		return ParseDurationErr(text, target)
	},
}

// Parse parses text with the parser for family f. target selects the
// canonical unit of Duration values (Microseconds or Seconds) and is
// ignored by the other families. On failure, Parse returns a missing
// Value and the reason.
func (f Family) Parse(text string, target Canonical) (Value, error) {
	if f < 0 || int(f) >= len(parsers) {
		panic(fmt.Sprintf("bad Family %v", f))
	}
	return parsers[f](text, target)
}

// Canonical returns the unit that f.Parse produces for target.
func (f Family) Canonical(target Canonical) Canonical {
	switch f {
	case Size:
		return Megabytes
	case Duration:
		if target == Seconds {
			return Seconds
		}
		return Microseconds
	}
	return Dimensionless
}
