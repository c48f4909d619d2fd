package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

const migration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS app_user (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email text NOT NULL,
    access_token text NOT NULL DEFAULT '',
    refresh_token text NOT NULL DEFAULT '',
    roles text[] NOT NULL DEFAULT ARRAY['DEFAULT_USER'],
    oauth_providers text[] NOT NULL DEFAULT ARRAY['linkedin'],
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS app_user_email_lower_unique
ON app_user (LOWER(email));
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, migration)
	return err
}
