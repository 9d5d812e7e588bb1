// Package database opens the application's SQLite database. It only
// provides the handle; no schema or queries live here.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DriverName is the database/sql name registered by modernc.org/sqlite.
	DriverName = "sqlite"

	// DefaultMaxOpenConns keeps writers serialised; SQLite allows one at a time.
	DefaultMaxOpenConns = 1

	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 1

	// DefaultConnMaxLifetime is the default maximum lifetime of a connection
	DefaultConnMaxLifetime = 30 * time.Minute

	// DefaultPingTimeout is the default timeout for pinging the database
	DefaultPingTimeout = 5 * time.Second
)

// ErrEmptyPath is returned by Open when no database path is configured.
var ErrEmptyPath = errors.New("database path is empty")

// Open opens the SQLite file at path and verifies the connection. The file
// is created if it does not exist.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if pingErr := Ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// Ping verifies db is reachable within DefaultPingTimeout.
func Ping(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the database connection
func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
