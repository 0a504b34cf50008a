package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is a file-backed cache backend. It survives restarts but remains a
// cache, not a system of record.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) the cache database
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS result_cache (
			identity   TEXT NOT NULL,
			field      TEXT NOT NULL,
			payload    BLOB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (identity, field)
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the cache database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get returns the cached payload for a key, if present
func (s *SQLite) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM result_cache WHERE identity = ? AND field = ?",
		key.Identity, key.Field(),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return payload, true, nil
}

// Set stores a payload under a key
func (s *SQLite) Set(ctx context.Context, key Key, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO result_cache (identity, field, payload) VALUES (?, ?, ?)",
		key.Identity, key.Field(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate drops every payload cached for an identity
func (s *SQLite) Invalidate(ctx context.Context, identity string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM result_cache WHERE identity = ?", identity); err != nil {
		return fmt.Errorf("failed to invalidate cache entries: %w", err)
	}
	return nil
}
