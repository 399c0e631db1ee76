// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"

	"github.com/ozonebench/perfcmp/benchseries"
)

// A ProgressSet holds the progress series that experiments are aligned
// on. It is read once per run and shared by every analysis.
type ProgressSet struct {
	Shared       benchseries.Progress
	ByExperiment map[string]benchseries.Progress
}

// For returns the progress series of experiment exp.
func (ps *ProgressSet) For(exp string) benchseries.Progress {
	if p, ok := ps.ByExperiment[exp]; ok {
		return p
	}
	return ps.Shared
}

// LoadProgress reads the reference progress series of cfg, and with
// cfg.Progress.PerExperiment, the series of every experiment that has
// one. It fails if the reference series is missing or empty.
func LoadProgress(cfg *Config, cat *Catalog) (*ProgressSet, error) {
	read := func(e Experiment) (benchseries.Progress, error) {
		path, err := FindFile(cat.Dir(e), cfg.Progress.Pattern)
		if err != nil {
			return nil, err
		}
		s, err := benchseries.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrParse)
		}
		if s.Len() == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrEmptySeries)
		}
		return benchseries.ReadProgress(s), nil
	}

	ref := cfg.ProgressExperiment()
	shared, err := read(ref)
	if err != nil {
		return nil, fmt.Errorf("progress of %s: %w", ref.Name, err)
	}
	ps := &ProgressSet{Shared: shared, ByExperiment: make(map[string]benchseries.Progress)}
	if !cfg.Progress.PerExperiment {
		return ps, nil
	}
	for _, e := range cfg.Experiments {
		if e.Name == ref.Name {
			ps.ByExperiment[e.Name] = shared
			continue
		}
		p, err := read(e)
		if err != nil {
			cfg.warn("progress of %s: %s; using %s\n", e.Name, err, ref.Name)
			continue
		}
		ps.ByExperiment[e.Name] = p
	}
	return ps, nil
}
