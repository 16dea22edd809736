// Package pg implementa el document store sobre PostgreSQL.
// Una sola tabla documents con (collection, id) como PK y el documento en
// JSONB; usa pgxpool directamente.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/meetpoint/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection  text        NOT NULL,
	id          text        NOT NULL,
	doc         jsonb       NOT NULL,
	updated_at  timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);`

// Store implementa store.Store sobre pgxpool.
type Store struct {
	pool *pgxpool.Pool
}

// New conecta al DSN dado y asegura el esquema.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string, v any) error {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection=$1 AND id=$2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("pg: get %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(raw, v)
}

func (s *Store) Put(ctx context.Context, collection, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("pg: marshal %s/%s: %w", collection, id, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("pg: put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return fmt.Errorf("pg: delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string, fn func(id string, raw []byte) error) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection=$1 ORDER BY id`, collection)
	if err != nil {
		return fmt.Errorf("pg: list %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
