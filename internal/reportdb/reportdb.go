// Package reportdb persists report output into a SQLite database so the
// aggregated numbers can be queried with plain SQL.
package reportdb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"callreport/internal/hms"
	"callreport/internal/overview"
	"callreport/internal/summary"
)

// DB wraps SQLite access for the report index.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the report database and applies the
// schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TIMESTAMP,
			finished_at TIMESTAMP,
			total_rows INTEGER,
			total_folders INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS summary_rows (
			run_id INTEGER,
			folder TEXT,
			filename TEXT,
			duration_seconds INTEGER,
			has_transcription INTEGER,
			has_analysis INTEGER,
			call_timestamp TEXT,
			phone_number TEXT,
			call_type TEXT,
			sentiment TEXT,
			call_tags TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_summary_phone ON summary_rows(phone_number);`,
		`CREATE TABLE IF NOT EXISTS folder_stats (
			run_id INTEGER,
			folder TEXT,
			total_calls INTEGER,
			unique_phones INTEGER,
			calls_over_minute INTEGER,
			incoming INTEGER,
			outgoing INTEGER,
			unique_outgoing_long INTEGER,
			talk_seconds INTEGER
		);`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun stores one aggregation run. Row and stat tables hold only the
// latest run; the runs table keeps history. Everything happens in one
// transaction so a failed run never leaves a half-replaced index.
func (d *DB) RecordRun(rows []*summary.Row, result *overview.Result, started, finished time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	folders := 0
	if result != nil {
		folders = len(result.Stats)
	}
	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, total_rows, total_folders) VALUES (?, ?, ?, ?)`,
		started, finished, len(rows), folders,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM summary_rows`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM folder_stats`); err != nil {
		return err
	}

	rowStmt, err := tx.Prepare(`INSERT INTO summary_rows
		(run_id, folder, filename, duration_seconds, has_transcription, has_analysis,
		 call_timestamp, phone_number, call_type, sentiment, call_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer rowStmt.Close()
	for _, row := range rows {
		_, err := rowStmt.Exec(runID, row.Folder, row.Filename, hms.ToSeconds(row.Duration),
			row.HasTranscription, row.HasAnalysis, row.Meta.Timestamp, row.Meta.PhoneNumber,
			row.Meta.CallType, row.Flat.Sentiment, row.Flat.CallTags)
		if err != nil {
			return fmt.Errorf("failed to insert row for %s: %w", row.Filename, err)
		}
	}

	if result != nil {
		statStmt, err := tx.Prepare(`INSERT INTO folder_stats
			(run_id, folder, total_calls, unique_phones, calls_over_minute,
			 incoming, outgoing, unique_outgoing_long, talk_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer statStmt.Close()

		stats := append([]*overview.FolderStats{}, result.Stats...)
		if result.Overall != nil {
			stats = append(stats, result.Overall)
		}
		for _, st := range stats {
			_, err := statStmt.Exec(runID, st.Folder, st.Total, len(st.Phones), st.OverMinute,
				st.Incoming, st.Outgoing, len(st.OutgoingLongPhones), st.TalkSeconds)
			if err != nil {
				return fmt.Errorf("failed to insert stats for %s: %w", st.Folder, err)
			}
		}
	}

	return tx.Commit()
}

// RunCount returns the number of recorded runs.
func (d *DB) RunCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// RowCount returns the number of indexed summary rows.
func (d *DB) RowCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM summary_rows`).Scan(&n)
	return n, err
}
