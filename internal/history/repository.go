package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/metricdocs/metricdocs/internal/database"
)

// Repository defines the persistence interface for run records.
type Repository interface {
	Save(rec *RunRecord) error
	List(limit int) ([]RunRecord, error)
	ListByProject(project string, limit int) ([]RunRecord, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the run-history repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS run_history (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp   TEXT    NOT NULL,
            command     TEXT    NOT NULL,
            project     TEXT    NOT NULL,
            type_prefix TEXT    NOT NULL DEFAULT '',
            format      TEXT    NOT NULL DEFAULT '',
            metrics     INTEGER NOT NULL DEFAULT 0,
            truncated   INTEGER NOT NULL DEFAULT 0,
            outcome     TEXT    NOT NULL DEFAULT '',
            detail      TEXT    NOT NULL DEFAULT '',
            duration_ms INTEGER NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_run_history_timestamp ON run_history(timestamp);
        CREATE INDEX IF NOT EXISTS idx_run_history_project ON run_history(project);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new run record.
func (r *SQLiteRepository) Save(rec *RunRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	truncated := 0
	if rec.Truncated {
		truncated = 1
	}

	result, err := r.db.Exec(`
        INSERT INTO run_history (timestamp, command, project, type_prefix, format, metrics, truncated, outcome, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(time.RFC3339Nano), rec.Command, rec.Project, rec.TypePrefix,
		rec.Format, rec.Metrics, truncated, rec.Outcome, rec.Detail, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("history: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("history: failed to get last insert ID: %w", err)
	}
	rec.ID = id
	return nil
}

// List returns the most recent n run records.
func (r *SQLiteRepository) List(limit int) ([]RunRecord, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, command, project, type_prefix, format, metrics, truncated, outcome, detail, duration_ms
        FROM run_history ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByProject returns the most recent n run records for a project.
func (r *SQLiteRepository) ListByProject(project string, limit int) ([]RunRecord, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, command, project, type_prefix, format, metrics, truncated, outcome, detail, duration_ms
        FROM run_history WHERE project = ? ORDER BY timestamp DESC LIMIT ?`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes records older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM run_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var timestampStr string
		var truncated int
		err := rows.Scan(
			&rec.ID, &timestampStr, &rec.Command, &rec.Project, &rec.TypePrefix,
			&rec.Format, &rec.Metrics, &truncated, &rec.Outcome, &rec.Detail, &rec.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, timestampStr)
		rec.Truncated = truncated != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
