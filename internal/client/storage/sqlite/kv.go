package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelez/repairdesk/internal/client/storage"
)

// Set stores value under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%w: failed to save %q: %v", storage.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Get returns the value stored under key, or storage.ErrKeyNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: failed to read %q: %v", storage.ErrStorageUnavailable, key, err)
	}

	return value, nil
}

// Delete removes key. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: failed to delete %q: %v", storage.ErrStorageUnavailable, key, err)
	}
	return nil
}
