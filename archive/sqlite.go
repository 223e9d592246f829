package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS task_runs (
        id TEXT PRIMARY KEY,
        day TEXT NOT NULL,
        generated_at INTEGER NOT NULL,
        record TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS task_runs_day ON task_runs (day)`,
}

// SQLiteStore keeps runs in a SQLite database, one JSON record per row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes r.
func (s *SQLiteStore) Append(ctx context.Context, r Run) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO task_runs (id, day, generated_at, record) VALUES (?, ?, ?, ?)`,
		r.ID, r.Date.String(), r.GeneratedAt.UnixNano(), string(b))
	if err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	return nil
}

// Query returns matching runs, newest first.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Run, error) {
	var args []any
	query := `SELECT record FROM task_runs WHERE 1=1`
	// YYYY-MM-DD compares correctly as text.
	if !q.From.IsZero() {
		query += ` AND day >= ?`
		args = append(args, q.From.String())
	}
	if !q.To.IsZero() {
		query += ` AND day <= ?`
		args = append(args, q.To.String())
	}
	query += ` ORDER BY generated_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Run
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Run
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
