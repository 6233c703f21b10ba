// Package history keeps a local log of finished sessions in a SQLite
// database, so past runs can be listed without re-reading their records.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/slate-framework/slate/packages/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	started_at       TEXT NOT NULL,
	duration_seconds REAL NOT NULL,
	total            INTEGER NOT NULL,
	failures         INTEGER NOT NULL,
	errors           INTEGER NOT NULL,
	skips            INTEGER NOT NULL
);
`

// Entry is one recorded session summary.
type Entry struct {
	ID              string
	Started         time.Time
	DurationSeconds float64
	Total           int
	Failures        int
	Errors          int
	Skips           int
}

// IsSuccess reports whether the entry recorded a fully passing session.
func (e Entry) IsSuccess() bool {
	return e.Failures == 0 && e.Errors == 0
}

// Store is a session history database.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a session summary and returns its id. Sessions without an
// id of their own get a generated one.
func (s *Store) Record(sess *session.Session) (string, error) {
	id := sess.ID
	if id == "" {
		id = uuid.NewString()
	}
	started := sess.Started
	if started.IsZero() {
		started = time.Now()
	}

	total := 0
	skips := 0
	for _, r := range sess.Results.All() {
		total++
		if r.Skipped {
			skips++
		}
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, started_at, duration_seconds, total, failures, errors, skips)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		started.UTC().Format(time.RFC3339),
		sess.Duration.Seconds(),
		total,
		sess.Results.NumFailures(),
		sess.Results.NumErrors(),
		skips,
	)
	if err != nil {
		return "", fmt.Errorf("recording session: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, duration_seconds, total, failures, errors, skips
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		if err := rows.Scan(&e.ID, &started, &e.DurationSeconds, &e.Total, &e.Failures, &e.Errors, &e.Skips); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		e.Started, err = time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, fmt.Errorf("parsing session timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return entries, nil
}
