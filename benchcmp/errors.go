// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import "errors"

// Errors reported while comparing configurations. They are wrapped
// with the metric, configuration or magnitude they concern. None of
// them stops a run: the affected metric or magnitude is skipped.
var (
	// ErrParse reports a value that could not be decoded.
	ErrParse = errors.New("unparsable value")

	// ErrAlignmentMiss reports a target magnitude that the progress
	// series never reaches.
	ErrAlignmentMiss = errors.New("magnitude not reached")

	// ErrEmptySeries reports a metric file with no usable rows.
	ErrEmptySeries = errors.New("no usable rows")

	// ErrMissingFile reports a metric file absent for a configuration.
	ErrMissingFile = errors.New("metric file not found")
)

// A skipError explains why a metric was left out. Its cause has
// already been reported, so Error does not repeat it; errors.Is still
// finds it.
type skipError struct {
	msg   string
	cause error
}

func (e *skipError) Error() string { return e.msg }
func (e *skipError) Unwrap() error { return e.cause }
