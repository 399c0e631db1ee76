// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcmp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ozonebench/perfcmp/benchseries"
)

// MetricFiles returns the CSV files in dir keyed by metric name. If
// several files name the same metric, the first in lexical order wins.
// It is an error if dir cannot be read.
func MetricFiles(dir string) (map[string]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string)
	for _, ent := range ents {
		name := ent.Name()
		if ent.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		metric := benchseries.MetricName(name)
		if _, ok := files[metric]; !ok {
			files[metric] = filepath.Join(dir, name)
		}
	}
	return files, nil
}

// FindFile returns the first file in dir, in lexical order, whose name
// matches the glob pattern. The error wraps ErrMissingFile if there is
// none.
func FindFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(escapeGlob(filepath.Clean(dir)), pattern))
	if err != nil {
		return "", fmt.Errorf("pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			return m, nil
		}
	}
	return "", fmt.Errorf("%s in %s: %w", pattern, dir, ErrMissingFile)
}

// escapeGlob escapes the characters of a path that filepath.Match
// treats specially, so that a directory name is matched literally.
func escapeGlob(path string) string {
	if filepath.Separator == '\\' {
		return path
	}
	return globMeta.Replace(path)
}

var globMeta = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)

// A Catalog lists the metric files of every experiment.
type Catalog struct {
	Base  string
	Files map[string]map[string]string // experiment name -> metric -> path
}

// NewCatalog lists the metric files of every experiment in cfg under
// base. It is an error if an experiment directory cannot be read.
func NewCatalog(cfg *Config, base string) (*Catalog, error) {
	c := &Catalog{Base: base, Files: make(map[string]map[string]string)}
	for _, e := range cfg.Experiments {
		files, err := MetricFiles(c.Dir(e))
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		c.Files[e.Name] = files
	}
	return c, nil
}

// Dir returns the directory of experiment e.
func (c *Catalog) Dir(e Experiment) string {
	return filepath.Join(c.Base, e.Dir)
}

// Metrics returns the names of metrics found for at least two
// experiments, sorted.
func (c *Catalog) Metrics() []string {
	count := make(map[string]int)
	for _, files := range c.Files {
		for m := range files {
			count[m]++
		}
	}
	var out []string
	for m, n := range count {
		if n >= 2 {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

// FilesFor returns the file of metric in each experiment that has one,
// keyed by experiment name.
func (c *Catalog) FilesFor(metric string) map[string]string {
	out := make(map[string]string)
	for exp, files := range c.Files {
		if p, ok := files[metric]; ok {
			out[exp] = p
		}
	}
	return out
}
