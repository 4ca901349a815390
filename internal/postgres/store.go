package postgres

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_slots (
	scope      TEXT        NOT NULL,
	slot       TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (scope, slot)
)`

// Store is the Postgres store.Backend: one row per (scope, slot).
type Store struct{ DB *pgxpool.Pool }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, schema)
	return err
}

func (s *Store) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var v string
	err := s.DB.QueryRow(ctx, `SELECT value::text FROM kv_slots WHERE scope=$1 AND slot=$2`, scope, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return []byte(v), nil
}

func (s *Store) Set(ctx context.Context, scope, key string, value []byte) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO kv_slots(scope, slot, value, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (scope, slot) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, scope, key, string(value))
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if _, err := s.DB.Exec(ctx, `DELETE FROM kv_slots WHERE scope=$1 AND slot=$2`, scope, key); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}
