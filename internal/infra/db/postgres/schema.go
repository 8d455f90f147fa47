package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migrate bootstraps the relational schema. Statements are idempotent so the
// service can run it unconditionally at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id             UUID PRIMARY KEY,
  email          TEXT NOT NULL UNIQUE,
  password_hash  TEXT NOT NULL,
  registered_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  last_active_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`CREATE TABLE IF NOT EXISTS chat_history (
  id         TEXT PRIMARY KEY,
  user_id    UUID NOT NULL REFERENCES users(id),
  message    TEXT NOT NULL,
  encrypted  BOOLEAN NOT NULL DEFAULT FALSE,
  mood       TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`CREATE INDEX IF NOT EXISTS chat_history_user_recency
  ON chat_history (user_id, created_at DESC, id DESC);`,
		`CREATE TABLE IF NOT EXISTS mood_profiles (
  user_id       UUID PRIMARY KEY REFERENCES users(id),
  dominant_mood TEXT NOT NULL DEFAULT 'neutral',
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`CREATE TABLE IF NOT EXISTS semantic_entries (
  id            UUID PRIMARY KEY,
  collection    TEXT NOT NULL,
  user_id       UUID NOT NULL,
  text          TEXT NOT NULL,
  mood          TEXT NOT NULL,
  dominant_mood TEXT NOT NULL,
  embedding     REAL[] NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`CREATE INDEX IF NOT EXISTS semantic_entries_collection
  ON semantic_entries (collection, created_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
