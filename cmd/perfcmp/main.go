// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfcmp compares the metrics of several configurations of a storage
// engine benchmark.
//
// Usage:
//
//	perfcmp [-config file] [-base dir] [-out dir] [-csv file] [-html file] [-dsn dsn]
//
// Each configuration is a directory under the base directory holding
// one CSV file per metric, named "<metric>-data-<suffix>.csv". The
// first column of each file is a timestamp and the last is the value.
//
// For every metric present in at least two configurations, perfcmp
// plots its values over time, one line per configuration, and writes
// the chart to the output directory. It then writes charts.md, an
// index of those charts, in the base directory.
//
// Perfcmp also compares configurations at fixed magnitudes of a
// progress metric, by default the estimated number of keys. For each
// magnitude and configuration it finds the first row at which the
// progress reaches the magnitude and reads the analyzed metrics at that
// row. It prints a table per magnitude comparing every configuration
// with the first, and draws the same comparison as a bar chart.
//
// The -config flag names a YAML file that replaces the built-in
// configurations, metrics and magnitudes. See the benchcmp package for
// its fields.
//
// The -csv and -html flags additionally write the magnitude comparison
// to a CSV file or an HTML page. The -dsn flag archives it in a SQL
// database: -driver selects sqlite3 (the default) or mysql.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ozonebench/perfcmp/archive"
	"github.com/ozonebench/perfcmp/benchcmp"
)

func main() {
	log.SetPrefix("perfcmp: ")
	log.SetFlags(0)
	if err := perfcmp(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func perfcmp(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("perfcmp", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: perfcmp [options]\n")
		fmt.Fprintf(flags.Output(), "options:\n")
		flags.PrintDefaults()
	}
	flagConfig := flags.String("config", "", "read the comparison from YAML `file` instead of the built-in one")
	flagBase := flags.String("base", ".", "`dir`ectory holding the configuration directories")
	flagOut := flags.String("out", "", "write charts to `dir`ectory (default the config's chart directory under -base)")
	flagCSV := flags.String("csv", "", "write the magnitude comparison as CSV to `file`")
	flagHTML := flags.String("html", "", "write the magnitude comparison as HTML to `file`")
	flagDriver := flags.String("driver", "sqlite3", "SQL `driver` for -dsn: sqlite3 or mysql")
	flagDSN := flags.String("dsn", "", "archive the magnitude comparison in the database at `dsn`")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		flags.Usage()
		return flag.ErrHelp
	}

	cfg := benchcmp.Default()
	if *flagConfig != "" {
		var err error
		cfg, err = benchcmp.LoadConfig(*flagConfig)
		if err != nil {
			return err
		}
	}
	cfg.Infof = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
	cfg.Warn = func(format string, args ...interface{}) {
		fmt.Fprintf(wErr, format, args...)
	}

	r := &benchcmp.Runner{Config: cfg, Base: *flagBase, Out: *flagOut, Summary: w}
	res, err := r.Run()
	if err != nil {
		return err
	}

	if *flagCSV != "" {
		if err := benchcmp.WriteFile(*flagCSV, func(w io.Writer) error {
			return benchcmp.WriteCSV(w, res.Records)
		}); err != nil {
			return err
		}
	}
	if *flagHTML != "" {
		if err := benchcmp.WriteFile(*flagHTML, func(w io.Writer) error {
			return benchcmp.WriteHTML(w, res.Records)
		}); err != nil {
			return err
		}
	}
	if *flagDSN != "" {
		db, err := archive.OpenSQL(*flagDriver, *flagDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		run, err := db.SaveRecords(context.Background(), cfg.Title, res.Records)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		fmt.Fprintf(w, "Archived run %d\n", run.ID)
	}
	return nil
}
