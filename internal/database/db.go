package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Open connects to the SQLite database file at path and verifies the
// connection. Foreign key enforcement is switched on for every connection
// through the DSN pragma, so referential integrity and ON DELETE CASCADE
// behave as declared in the schema.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings. SQLite serializes writers itself; busy_timeout covers
	// contention between pooled connections.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Bootstrap creates the schema when the database is fresh. It checks for the
// study_groups table instead of the file's existence so that an empty file
// left behind by a crashed first run is still initialized.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	const q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'study_groups'`
	var n int
	if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return fmt.Errorf("bootstrap check: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}
