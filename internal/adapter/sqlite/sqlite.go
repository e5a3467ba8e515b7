// Package sqlite implements the domain repositories on an embedded SQLite
// database, for single-node deployments and local development.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"fitcoach/internal/migrations"

	_ "modernc.org/sqlite"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the database file at path and runs migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection serializes upserts.
	s.SetMaxOpenConns(1)

	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := migrations.Up(ctx, s, migrations.SQLite); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &DB{sql: s}, nil
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}
