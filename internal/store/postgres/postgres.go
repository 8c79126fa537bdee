// Package postgres implements the KV driver on a single app_state table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lapakhq/lapak/internal/store"
)

type KV struct {
	db *sql.DB
}

func New(db *sql.DB) *KV {
	return &KV{db: db}
}

// Ensure creates the backing table when it does not exist yet.
func (s *KV) Ensure(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating app_state table: %w", err)
	}

	return nil
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM app_state WHERE key = $1`

	var value []byte

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, nil
}

func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}
