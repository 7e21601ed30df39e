package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, db))
	// Second call must be a no-op, not an error.
	require.NoError(t, Bootstrap(ctx, db))

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('locations', 'study_groups', 'attendees')`,
	).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestForeignKeysEnforced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, db))

	// An attendee row without a matching group must be rejected by the
	// engine itself, on every pooled connection.
	_, err = db.ExecContext(ctx, `INSERT INTO attendees (group_id, user_id) VALUES (123, 1)`)
	assert.Error(t, err)
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "nested", "test.db"))
	assert.Error(t, err)
}
