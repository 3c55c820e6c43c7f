package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore implements [Store] backed by a SQLite credentials table.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a SQLiteStore and ensures its schema exists.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	query := `
		CREATE TABLE IF NOT EXISTS credentials (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`

	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get retrieves a credential value by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string

	query := `SELECT value FROM credentials WHERE key = ?`

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query credential: %w", err)
	}

	return value, nil
}

// Set inserts or replaces a credential value.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return nil
}

// Delete removes a credential by key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM credentials WHERE key = ?`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return nil
}
