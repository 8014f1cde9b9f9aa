package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is the complete schema for fresh installs. Statements are
// idempotent so EnsureSchema can run on every process start.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	handle TEXT NOT NULL UNIQUE,
	is_alive BOOLEAN NOT NULL DEFAULT true,
	heat_level INTEGER NOT NULL DEFAULT 0 CHECK (heat_level >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	died_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS player_systems (
	player_id UUID NOT NULL REFERENCES players(id),
	system_type TEXT NOT NULL,
	health INTEGER NOT NULL DEFAULT 100 CHECK (health BETWEEN 0 AND 100),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (player_id, system_type)
);

CREATE INDEX IF NOT EXISTS idx_player_systems_low_health
	ON player_systems (health) WHERE health < 30;

CREATE TABLE IF NOT EXISTS daily_glitches (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	glitch_date DATE NOT NULL UNIQUE,
	glitch_id TEXT NOT NULL,
	glitch_name TEXT NOT NULL,
	effects JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS seasons (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	ends_at TIMESTAMPTZ NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT true,
	meta_modules JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_seasons_single_active
	ON seasons (is_active) WHERE is_active;

CREATE TABLE IF NOT EXISTS world_events (
	id UUID PRIMARY KEY,
	event_type TEXT NOT NULL,
	narrative TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT true
);

CREATE INDEX IF NOT EXISTS idx_world_events_active
	ON world_events (event_type) WHERE is_active;

CREATE TABLE IF NOT EXISTS net_topologies (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	week_start DATE NOT NULL UNIQUE,
	layout JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema applies the idempotent schema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
