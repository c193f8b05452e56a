// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var ErrUnknownDialect = errors.New("unknown database type")

// Open connects to the database and verifies the connection.
// SQLite connections are limited to one so that in-memory databases are
// shared by every query, and foreign keys are switched on.
func Open(dialect, url string) (*sql.DB, error) {
	switch dialect {
	case DialectPostgres, DialectSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	conn, err := sql.Open(dialect, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var pk string
	switch dialect {
	case DialectPostgres:
		pk = "BIGSERIAL PRIMARY KEY"
	case DialectSQLite:
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{pk}}", pk))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id {{pk}},
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    date_joined TIMESTAMP NOT NULL
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id {{pk}},
    question TEXT NOT NULL,
    created_by BIGINT REFERENCES app_user(id) ON DELETE CASCADE,
    pub_date TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_created_by ON poll(created_by);

-- Choices
CREATE TABLE IF NOT EXISTS choice (
    id {{pk}},
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    choice_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_choice_poll_id ON choice(poll_id);

-- Votes (one per user per poll; anonymous votes have NULL voted_by)
CREATE TABLE IF NOT EXISTS vote (
    id {{pk}},
    choice_id BIGINT NOT NULL REFERENCES choice(id) ON DELETE CASCADE,
    poll_id BIGINT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voted_by BIGINT REFERENCES app_user(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, voted_by)
);

CREATE INDEX IF NOT EXISTS idx_vote_choice_id ON vote(choice_id);
`
