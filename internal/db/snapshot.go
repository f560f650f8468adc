package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/susu3304/slashbot/internal/store"
)

// Snapshot is a store.Blob kept as one row of the snapshots table.
type Snapshot struct {
	db   *DB
	name string
}

func (db *DB) Snapshot(name string) *Snapshot {
	return &Snapshot{db: db, name: name}
}

func (s *Snapshot) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.pool.QueryRow(ctx,
		"SELECT body FROM snapshots WHERE name = $1",
		s.name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.name, err)
	}
	return []byte(body), nil
}

func (s *Snapshot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO snapshots (name, body, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = CURRENT_TIMESTAMP`,
		s.name, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.name, err)
	}
	return nil
}

func (s *Snapshot) Location() string {
	return "postgres:snapshots/" + s.name
}
