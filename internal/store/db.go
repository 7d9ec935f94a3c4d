// Package store persists run history in sqlite: one row per aggregation
// run plus its errors and output files.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the sqlite database and creates tables when absent.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT,
		output_basename TEXT,
		backend TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	outputTable := `
	CREATE TABLE IF NOT EXISTS run_outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		path TEXT,
		kind TEXT,
		group_count INTEGER,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, outputTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// RunInfo is the stored view of one aggregation run.
type RunInfo struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Output    string    `json:"output_basename"`
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RunOutput is one report file written by a run.
type RunOutput struct {
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	GroupCount int       `json:"group_count"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SaveRun stores a new run in pending state.
func SaveRun(runID, input, output, backend string) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO runs (id, input, output_basename, backend, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, input, output, backend, "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveRunOutput records one written report file.
func SaveRunOutput(runID, path, kind string, groupCount int) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_outputs (run_id, path, kind, group_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, path, kind, groupCount, now)
	return err
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]RunInfo, error) {
	rows, err := db.Query(`SELECT id, input, output_basename, backend, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Backend, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func GetRun(runID string) (RunInfo, error) {
	var r RunInfo
	err := db.QueryRow(
		`SELECT id, input, output_basename, backend, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.Input, &r.Output, &r.Backend, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// ListRunErrors returns the recorded error messages for a run.
func ListRunErrors(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// ListRunOutputs returns the report files written by a run.
func ListRunOutputs(runID string) ([]RunOutput, error) {
	rows, err := db.Query(`SELECT path, kind, group_count, created_at FROM run_outputs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []RunOutput
	for rows.Next() {
		var o RunOutput
		if err := rows.Scan(&o.Path, &o.Kind, &o.GroupCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}
