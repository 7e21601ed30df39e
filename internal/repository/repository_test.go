package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/study-group-scheduler/internal/database"
	"github.com/iliyamo/study-group-scheduler/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(path)
	require.NoError(t, err)
	require.NoError(t, database.Bootstrap(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func begin(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

// createGroup inserts a group with its location and founding attendee,
// mirroring what the create handler does.
func createGroup(t *testing.T, db *sql.DB, organizerID int64, name, course, building string, maxMembers int, nextMeeting string) int64 {
	t.Helper()
	ctx := context.Background()
	locations := NewLocationRepo(db)
	groups := NewGroupRepo(db)
	attendees := NewAttendeeRepo(db)

	tx := begin(t, db)
	locID, err := locations.ResolveOrCreateTx(ctx, tx, building)
	require.NoError(t, err)

	g := model.Group{
		OrganizerID: organizerID,
		Name:        name,
		CourseCode:  course,
		LocationID:  locID,
		Room:        "204",
		MeetingDay:  "Monday",
		MeetingTime: "18:00",
		MaxMembers:  maxMembers,
		NextMeeting: nextMeeting,
	}
	require.NoError(t, groups.CreateTx(ctx, tx, &g))
	require.NoError(t, attendees.JoinTx(ctx, tx, g.ID, organizerID))
	require.NoError(t, tx.Commit())
	return g.ID
}

func TestResolveOrCreateLocationIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	locations := NewLocationRepo(db)

	tx := begin(t, db)
	first, err := locations.ResolveOrCreateTx(ctx, tx, "Library")
	require.NoError(t, err)
	second, err := locations.ResolveOrCreateTx(ctx, tx, "Library")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, first, second)

	n, err := locations.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Case-sensitive uniqueness: a differently-cased name is a new row.
	tx = begin(t, db)
	other, err := locations.ResolveOrCreateTx(ctx, tx, "library")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NotEqual(t, first, other)
}

func TestTwoGroupsShareOneLocation(t *testing.T) {
	db := newTestDB(t)
	locations := NewLocationRepo(db)

	createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")
	createGroup(t, db, 2, "Calc Crew", "MATH101", "Library", 5, "2030-01-01T18:00:00")

	n, err := locations.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJoinUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	attendees := NewAttendeeRepo(db)
	gid := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")

	tx := begin(t, db)
	require.NoError(t, attendees.JoinTx(ctx, tx, gid, 7))
	require.NoError(t, tx.Commit())

	tx = begin(t, db)
	err := attendees.JoinTx(ctx, tx, gid, 7)
	_ = tx.Rollback()
	assert.ErrorIs(t, err, ErrAlreadyMember)

	// No duplicate row was created.
	n, err := attendees.CountForGroup(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, 2, n) // organizer + user 7
}

func TestJoinMissingGroup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	attendees := NewAttendeeRepo(db)

	tx := begin(t, db)
	err := attendees.JoinTx(ctx, tx, 9999, 7)
	_ = tx.Rollback()
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteOwnershipGate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)
	attendees := NewAttendeeRepo(db)
	gid := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")

	// Non-owner is rejected and nothing is mutated.
	tx := begin(t, db)
	err := groups.DeleteByIDAndOwnerTx(ctx, tx, gid, 2)
	_ = tx.Rollback()
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = groups.GetDetail(ctx, gid, 0)
	require.NoError(t, err)
	n, err := attendees.CountForGroup(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Missing group is not-found, regardless of the caller.
	tx = begin(t, db)
	err = groups.DeleteByIDAndOwnerTx(ctx, tx, 9999, 2)
	_ = tx.Rollback()
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)
	attendees := NewAttendeeRepo(db)
	gid := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")

	tx := begin(t, db)
	require.NoError(t, attendees.JoinTx(ctx, tx, gid, 7))
	require.NoError(t, tx.Commit())

	tx = begin(t, db)
	require.NoError(t, groups.DeleteByIDAndOwnerTx(ctx, tx, gid, 1))
	require.NoError(t, tx.Commit())

	_, err := groups.GetDetail(ctx, gid, 0)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	n, err := attendees.CountForGroup(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	member, err := attendees.Exists(ctx, gid, 7)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestLeaveNonMember(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	attendees := NewAttendeeRepo(db)
	gid := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")

	err := attendees.Leave(ctx, gid, 42)
	assert.ErrorIs(t, err, ErrNotMember)

	// Member count untouched.
	n, err := attendees.CountForGroup(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A real member can leave exactly once.
	tx := begin(t, db)
	require.NoError(t, attendees.JoinTx(ctx, tx, gid, 42))
	require.NoError(t, tx.Commit())
	require.NoError(t, attendees.Leave(ctx, gid, 42))
	assert.ErrorIs(t, attendees.Leave(ctx, gid, 42), ErrNotMember)
}

func TestGetDetail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)
	gid := createGroup(t, db, 5, "Algo Study", "CS201", "Library", 4, "2030-01-01T18:00:00")

	row, err := groups.GetDetail(ctx, gid, 5)
	require.NoError(t, err)
	assert.Equal(t, gid, row.ID)
	assert.Equal(t, int64(5), row.OwnerID)
	assert.Equal(t, "Library", row.Building)
	assert.Equal(t, 1, row.Members)
	assert.Equal(t, 4, row.MaxMembers)
	assert.True(t, row.HasJoined)

	// Same lookup from a different user's perspective.
	row, err = groups.GetDetail(ctx, gid, 99)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Members)
	assert.False(t, row.HasJoined)
}

func TestSearchListPartition(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)
	attendees := NewAttendeeRepo(db)

	g1 := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")
	g2 := createGroup(t, db, 2, "Calc Crew", "MATH101", "Science Hall", 5, "2030-01-01T18:00:00")
	g3 := createGroup(t, db, 3, "OS Night", "CS350", "Library", 5, "2030-01-01T18:00:00")

	tx := begin(t, db)
	require.NoError(t, attendees.JoinTx(ctx, tx, g2, 7))
	require.NoError(t, tx.Commit())

	// "My groups" returns exactly the groups user 7 attends.
	mine, err := groups.ListJoined(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g2, mine[0].ID)
	assert.True(t, mine[0].HasJoined)
	assert.Equal(t, 2, mine[0].Members)

	// Search returns everything with has_joined computed per row.
	all, err := groups.Search(ctx, 7, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	joined := map[int64]bool{}
	for _, row := range all {
		joined[row.ID] = row.HasJoined
	}
	assert.False(t, joined[g1])
	assert.True(t, joined[g2])
	assert.False(t, joined[g3])

	// Case-insensitive substring filter on course code.
	cs, err := groups.Search(ctx, 7, "cs")
	require.NoError(t, err)
	require.Len(t, cs, 2)

	// Filter also matches names.
	byName, err := groups.Search(ctx, 7, "calc")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, g2, byName[0].ID)
}

func TestSummaryForUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	attendees := NewAttendeeRepo(db)

	upcoming := createGroup(t, db, 1, "Algo Study", "CS201", "Library", 5, "2030-01-01T18:00:00")
	past := createGroup(t, db, 2, "Old Crew", "HIST100", "Annex", 5, "2001-01-01T10:00:00")

	tx := begin(t, db)
	require.NoError(t, attendees.JoinTx(ctx, tx, upcoming, 7))
	require.NoError(t, attendees.JoinTx(ctx, tx, past, 7))
	require.NoError(t, tx.Commit())

	s, err := attendees.SummaryForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, 2, s.GroupsJoined)
	assert.Equal(t, 1, s.TotalUpcomingGroups)
	assert.Equal(t, 3, s.ActiveUsers) // organizers 1 and 2, plus user 7
}
