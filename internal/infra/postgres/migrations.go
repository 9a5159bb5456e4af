package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The exclusion constraint is the authoritative double-booking guard: two
// active reservations on one table can never hold overlapping [starts_at,
// ends_at) ranges, no matter how the writers interleave. Canceled/stopped
// rows fall out of the constraint via the partial predicate.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS tables (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT UNIQUE NOT NULL,
	capacity INT NOT NULL CHECK (capacity > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	chat_id BIGINT UNIQUE NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	table_id UUID NOT NULL REFERENCES tables(id),
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	party_size INT NOT NULL CHECK (party_size > 0),
	starts_at TIMESTAMPTZ NOT NULL,
	ends_at TIMESTAMPTZ NOT NULL CHECK (ends_at > starts_at),
	status TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'confirmed', 'canceled', 'stopped')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT no_double_booking EXCLUDE USING gist (
		table_id WITH =,
		tstzrange(starts_at, ends_at) WITH &&
	) WHERE (status IN ('pending', 'confirmed'))
);

CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations(user_id);
CREATE INDEX IF NOT EXISTS idx_reservations_status_starts_at ON reservations(status, starts_at);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// SeedTables installs the venue floor layout when the tables relation is
// still empty. Idempotent;safe to run on every deploy.
func SeedTables(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM tables`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	layout := []struct {
		name     string
		capacity int
	}{
		{"T1", 2}, {"T2", 2}, {"T3", 4}, {"T4", 4}, {"T5", 4},
		{"T6", 4}, {"T7", 4}, {"T8", 4}, {"T9", 4}, {"T10", 4},
		{"T13", 4}, {"T14", 5}, {"T15", 4}, {"T16", 6}, {"T17", 6},
		{"T18", 2}, {"T20", 8},
	}
	for _, t := range layout {
		if _, err := pool.Exec(ctx,
			`INSERT INTO tables (name, capacity) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			t.name, t.capacity,
		); err != nil {
			return err
		}
	}
	return nil
}
