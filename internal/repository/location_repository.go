// This file defines repository methods for the locations table. A
// Location is a building deduplicated by its unique name: resolving the
// same name twice always yields the same row.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/study-group-scheduler/internal/model"
)

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo constructs a LocationRepo with the provided DB handle.
// This allows dependency injection of the database in tests and at
// startup.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// ResolveOrCreateTx resolves a building name to its location id within an
// existing transaction, inserting the row first when absent. The INSERT
// OR IGNORE makes the resolve race-tolerant: a concurrent insert of the
// same name is ignored and the follow-up SELECT then finds the winner's
// row.
func (r *LocationRepo) ResolveOrCreateTx(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	const qInsert = `INSERT OR IGNORE INTO locations (name) VALUES (?)`
	if _, err := tx.ExecContext(ctx, qInsert, name); err != nil {
		return 0, classify(err)
	}
	const qSelect = `SELECT location_id FROM locations WHERE name = ?`
	var id int64
	if err := tx.QueryRowContext(ctx, qSelect, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByName returns the location with the given name, or sql.ErrNoRows
// when it does not exist.
func (r *LocationRepo) GetByName(ctx context.Context, name string) (*model.Location, error) {
	const q = `SELECT location_id, name FROM locations WHERE name = ?`
	var loc model.Location
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&loc.ID, &loc.Name); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Count returns the number of location rows. Used by tests to verify
// that resolution never duplicates a building.
func (r *LocationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
