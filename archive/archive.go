// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive stores the magnitude records of comparison runs in a
// SQL database, so runs can be compared with each other later.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/ozonebench/perfcmp/benchcmp"
)

// DB is an archive backed by a SQL database. It's safe for concurrent
// use by multiple goroutines.
type DB struct {
	sql *sql.DB

	insertRun *sql.Stmt
	insertRow *sql.Stmt
}

// OpenSQL opens an archive in a SQL database. The parameters are the
// same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other engines receive MySQL syntax.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is evaluated with . as a map containing one entry whose
// key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Title VARCHAR(255),
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Measurements (
	RunID BIGINT UNSIGNED,
	Seq BIGINT UNSIGNED,
	Analysis VARCHAR(255),
	Metric VARCHAR(255),
	Magnitude VARCHAR(32),
	Experiment VARCHAR(255),
	KeyCount DOUBLE,
	RowIndex BIGINT,
	Value DOUBLE,
	Unit VARCHAR(32),
	Missing BOOLEAN,
	Ratio VARCHAR(32),
	PRIMARY KEY (RunID, Seq),
{{if not .sqlite3}}
	INDEX (Analysis(100), Metric(100)),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS MeasurementsAnalysisMetric ON Measurements(Analysis, Metric);
{{end}}
`))

func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Title, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertRow, err = db.sql.Prepare(`INSERT INTO Measurements(RunID, Seq, Analysis, Metric, Magnitude, Experiment, KeyCount, RowIndex, Value, Unit, Missing, Ratio)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	return err
}

// now is overridden by tests.
var now = time.Now

// A Run is a set of measurements archived together. Nothing is visible
// to readers until the run is committed.
type Run struct {
	ID      int64
	Title   string
	Created time.Time

	db  *DB
	tx  *sql.Tx
	seq int64
}

// NewRun starts a new run.
func (db *DB) NewRun(ctx context.Context, title string) (*Run, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	created := now().UTC().Truncate(time.Second)
	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, title, created.Unix())
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Run{ID: id, Title: title, Created: created, db: db, tx: tx}, nil
}

// Insert adds one measurement to the run.
func (r *Run) Insert(ctx context.Context, row benchcmp.Row) error {
	if r.tx == nil {
		return fmt.Errorf("run %d already finished", r.ID)
	}
	_, err := r.tx.StmtContext(ctx, r.db.insertRow).ExecContext(ctx,
		r.ID, r.seq, row.Analysis, row.Metric, row.Magnitude, row.Experiment,
		row.KeyCount, row.Row, row.Value, row.Unit, row.Missing, row.Ratio)
	if err != nil {
		return err
	}
	r.seq++
	return nil
}

// Commit makes the run visible.
func (r *Run) Commit() error {
	if r.tx == nil {
		return fmt.Errorf("run %d already finished", r.ID)
	}
	err := r.tx.Commit()
	r.tx = nil
	return err
}

// Abort discards the run.
func (r *Run) Abort() error {
	if r.tx == nil {
		return fmt.Errorf("run %d already finished", r.ID)
	}
	err := r.tx.Rollback()
	r.tx = nil
	return err
}

// SaveRecords archives every measurement of recs as one run and
// returns it.
func (db *DB) SaveRecords(ctx context.Context, title string, recs []*benchcmp.Record) (*Run, error) {
	run, err := db.NewRun(ctx, title)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		for _, row := range rec.Rows() {
			if err := run.Insert(ctx, row); err != nil {
				run.Abort()
				return nil, fmt.Errorf("%s: %s: %w", rec.Analysis.Name, row.Metric, err)
			}
		}
	}
	if err := run.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// Runs returns the committed runs, most recent first.
func (db *DB) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT RunID, Title, Created FROM Runs ORDER BY RunID DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []*Run
	for rows.Next() {
		r := &Run{db: db}
		var created int64
		if err := rows.Scan(&r.ID, &r.Title, &created); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountRuns returns the number of committed runs.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Rows returns the measurements of run id in insertion order.
func (db *DB) Rows(ctx context.Context, id int64) ([]benchcmp.Row, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT Analysis, Metric, Magnitude, Experiment, KeyCount, RowIndex, Value, Unit, Missing, Ratio
FROM Measurements WHERE RunID = ? ORDER BY Seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []benchcmp.Row
	for rows.Next() {
		var r benchcmp.Row
		if err := rows.Scan(&r.Analysis, &r.Metric, &r.Magnitude, &r.Experiment, &r.KeyCount, &r.Row, &r.Value, &r.Unit, &r.Missing, &r.Ratio); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, st := range []*sql.Stmt{db.insertRun, db.insertRow} {
		if st == nil {
			continue
		}
		if err := st.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
