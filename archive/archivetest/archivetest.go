// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archivetest opens archives for tests.
package archivetest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ozonebench/perfcmp/archive"
)

var mysqlDSN = flag.String("mysql", "", "run archive tests in a new database on the MySQL server at this DSN prefix, such as `root:@tcp(localhost:3306)/`, instead of in-memory SQLite")

// createEmptyMySQLDB makes a new, empty database for the test.
func createEmptyMySQLDB(t *testing.T, prefix string) (dsn string, cleanup func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "perfcmp-test-" + base64.RawURLEncoding.EncodeToString(buf)

	db, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		db.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", name)

	return prefix + name, func() {
		if _, err := db.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		db.Close()
	}
}

// NewDB opens an empty archive, in memory or on the server named by the
// -mysql flag. The archive is closed when the test finishes.
func NewDB(t *testing.T) *archive.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	var dropDB func()
	if *mysqlDSN != "" {
		driverName = "mysql"
		dataSourceName, dropDB = createEmptyMySQLDB(t, *mysqlDSN)
	}
	d, err := archive.OpenSQL(driverName, dataSourceName)
	if err != nil {
		if dropDB != nil {
			dropDB()
		}
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
		if dropDB != nil {
			dropDB()
		}
	})

	// Make sure the database really is empty.
	runs, err := d.CountRuns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if runs != 0 {
		t.Fatalf("found %d row(s) in Runs, want 0", runs)
	}
	return d
}
