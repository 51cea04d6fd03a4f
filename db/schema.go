// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// dbType selects the auto-increment dialect ("postgres" or "sqlite").
func CreateSchema(db *sql.DB, dbType string) error {
	voteID := "BIGSERIAL PRIMARY KEY"
	if dbType == "sqlite" {
		voteID = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	_, err := db.Exec(fmt.Sprintf(schema, voteID))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Tots (This-or-That polls) with denormalized vote counters
CREATE TABLE IF NOT EXISTS tots (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    option_a_text TEXT NOT NULL,
    option_a_image_url TEXT,
    option_b_text TEXT NOT NULL,
    option_b_image_url TEXT,
    option_c_text TEXT,
    option_c_image_url TEXT,
    creator_ip TEXT,
    creator_user_id TEXT,
    is_anonymous BOOLEAN NOT NULL DEFAULT TRUE,
    is_public BOOLEAN NOT NULL DEFAULT TRUE,
    is_trending BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP,
    total_votes INTEGER NOT NULL DEFAULT 0,
    option_a_votes INTEGER NOT NULL DEFAULT 0,
    option_b_votes INTEGER NOT NULL DEFAULT 0,
    option_c_votes INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tots_public_created ON tots(is_public, created_at);
CREATE INDEX IF NOT EXISTS idx_tots_trending ON tots(is_trending);

-- Vote ledger: one immutable row per (tot, voter key).
-- The UNIQUE constraint is the authoritative duplicate-vote gate; the
-- pre-insert existence check is only a fast path.
CREATE TABLE IF NOT EXISTS votes (
    id %s,
    tot_id TEXT NOT NULL REFERENCES tots(id),
    option_selected TEXT NOT NULL CHECK (option_selected IN ('A', 'B', 'C')),
    voter_key TEXT NOT NULL,
    voter_ip TEXT,
    user_id TEXT,
    user_agent TEXT,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (tot_id, voter_key)
);

CREATE INDEX IF NOT EXISTS idx_votes_tot_created ON votes(tot_id, created_at);
CREATE INDEX IF NOT EXISTS idx_votes_tot_user ON votes(tot_id, user_id);

-- Accounts
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Sessions, keyed by token JTI so logout can revoke a token early
CREATE TABLE IF NOT EXISTS sessions (
    jti TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
