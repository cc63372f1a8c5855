// Package history provides a local, bounded log of store operations backed
// by SQLite. It records what the client did and how it went, for the
// `storefront history` command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
)

// DefaultMaxEntries bounds the history table; the oldest rows beyond it are
// pruned on each write.
const DefaultMaxEntries = 1000

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id          TEXT PRIMARY KEY,
	op          TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_operations_created_at ON operations(created_at);
`

// SQLiteStore implements outbound.HistoryStore on a local SQLite database.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
}

// NewSQLiteStore opens (creating if needed) the history database at path.
func NewSQLiteStore(path string, maxEntries int) (*SQLiteStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// The driver is not safe for concurrent writers on one connection pool
	// with shared cache; a single connection is plenty for a local log.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &SQLiteStore{db: db, maxEntries: maxEntries}, nil
}

// Record appends an entry and prunes rows beyond the retention bound.
func (s *SQLiteStore) Record(ctx context.Context, e outbound.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (id, op, outcome, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Op, e.Outcome, e.Detail, e.Duration.Milliseconds(),
		e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM operations WHERE id NOT IN (
			SELECT id FROM operations ORDER BY created_at DESC LIMIT ?
		)`, s.maxEntries)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]outbound.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, op, outcome, detail, duration_ms, created_at
		 FROM operations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []outbound.HistoryEntry
	for rows.Next() {
		var e outbound.HistoryEntry
		var durationMs int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Op, &e.Outcome, &e.Detail, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
