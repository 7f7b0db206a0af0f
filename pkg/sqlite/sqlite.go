package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS run (
	id TEXT PRIMARY KEY,
	instance_name TEXT NOT NULL,
	person_count INTEGER NOT NULL,
	group_count INTEGER NOT NULL,
	max_fitness INTEGER NOT NULL,
	population_size INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	best_fitness INTEGER NOT NULL DEFAULT 0,
	generations INTEGER NOT NULL DEFAULT 0,
	stop_reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS improvement (
	run_id TEXT NOT NULL REFERENCES run (id) ON DELETE CASCADE,
	generation INTEGER NOT NULL,
	fitness INTEGER NOT NULL,
	assignment TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	PRIMARY KEY (run_id, generation)
);
`

// DB is a db.RunStore kept in a local SQLite file
type DB struct {
	db *sql.DB
}

// Open opens or creates the database file at path and ensures the tables exist
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time; a pool of connections only produces SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	for _, stmt := range []string{`PRAGMA foreign_keys = ON`, schema} {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}

	return &DB{db: sqlDB}, nil
}

// Close closes the database file
func (d *DB) Close() error {
	return d.db.Close()
}
