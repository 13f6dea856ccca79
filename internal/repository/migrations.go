package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The canonical schema is the Ent definition under db/ent/schema; these
// statements mirror it so a fresh database can bootstrap without running
// the codegen + atlas toolchain.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		company TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		description TEXT,
		doc_type TEXT NOT NULL DEFAULT 'outro',
		category_slug TEXT NOT NULL REFERENCES categories(slug),
		issue_date DATE,
		expiration_date DATE,
		status TEXT NOT NULL DEFAULT 'valid',
		file_url TEXT NOT NULL,
		file_size BIGINT,
		file_format TEXT,
		metadata JSONB NOT NULL DEFAULT '{}',
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS documents_user_idx ON documents (user_id)`,
	`CREATE INDEX IF NOT EXISTS documents_category_idx ON documents (category_slug)`,
	`CREATE TABLE IF NOT EXISTS collaborator_links (
		token TEXT PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		collaborator_name TEXT NOT NULL,
		collaborator_email TEXT NOT NULL,
		document_type TEXT,
		message TEXT,
		expiration_date TIMESTAMPTZ NOT NULL,
		manual_approval BOOLEAN NOT NULL DEFAULT false,
		status TEXT NOT NULL DEFAULT 'active',
		documents_uploaded UUID[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema applies the idempotent bootstrap statements.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
