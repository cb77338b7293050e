// Package db provides PostgreSQL access for session persistence and imported job postings.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS session_values (
	namespace  UUID        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
);

CREATE TABLE IF NOT EXISTS job_postings (
	url              TEXT        PRIMARY KEY,
	platform         TEXT        NOT NULL DEFAULT '',
	job_title        TEXT        NOT NULL DEFAULT '',
	company          TEXT        NOT NULL DEFAULT '',
	experience       TEXT        NOT NULL DEFAULT '',
	description      TEXT        NOT NULL DEFAULT '',
	content_hash     TEXT        NOT NULL DEFAULT '',
	fetched_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at       TIMESTAMPTZ,
	last_accessed_at TIMESTAMPTZ
)`

// EnsureSchema creates the session store and job posting tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
