// This file defines repository methods for study groups: creation,
// ownership-gated deletion, detail lookup and the list/search queries
// that annotate each row with membership information.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/study-group-scheduler/internal/model"
)

// GroupRepo encapsulates all database queries related to study groups.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo constructs a GroupRepo with the provided DB handle.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *GroupRepo) DB() *sql.DB { return r.db }

// GroupRow is a list/search result row. It aggregates the group's own
// columns with the resolved building name, the current member count and
// whether the requesting user has joined. The location id itself is
// never surfaced to clients. The id field is serialized as "eid", which
// is the wire name the frontend consumes.
type GroupRow struct {
	ID          int64   `json:"eid"`
	OwnerID     int64   `json:"owner_id"`
	Name        string  `json:"name"`
	CourseCode  string  `json:"course_code"`
	Description *string `json:"description"`
	Members     int     `json:"members"`
	MaxMembers  int     `json:"max_members"`
	MeetingDay  string  `json:"meeting_day"`
	MeetingTime string  `json:"meeting_time"`
	Building    string  `json:"building"`
	Room        string  `json:"room"`
	NextMeeting string  `json:"next_meeting"`
	HasJoined   bool    `json:"has_joined"`
}

// selectRow is the shared projection for list, search and detail
// queries. The LEFT JOIN aliased "me" matches at most one attendee row
// (the requesting user), so has_joined is computed per group row rather
// than assumed. Member counts come from a second join over all
// attendees.
const selectRow = `
SELECT g.group_id, g.organizer_id, g.name, g.course_code, g.description,
       g.max_members, g.meeting_day, g.meeting_time, l.name, g.room, g.next_meeting,
       COUNT(DISTINCT a.user_id),
       CASE WHEN me.user_id IS NULL THEN 0 ELSE 1 END
FROM study_groups g
JOIN locations l ON l.location_id = g.location_id
LEFT JOIN attendees a ON a.group_id = g.group_id
LEFT JOIN attendees me ON me.group_id = g.group_id AND me.user_id = ?`

// CreateTx inserts a new group within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or rollback the transaction.
func (r *GroupRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Group) error {
	const q = `INSERT INTO study_groups
        (organizer_id, name, course_code, description, location_id, room, meeting_day, meeting_time, max_members, next_meeting)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		g.OrganizerID, g.Name, g.CourseCode, g.Description, g.LocationID,
		g.Room, g.MeetingDay, g.MeetingTime, g.MaxMembers, g.NextMeeting,
	)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

// OrganizerOfTx returns the organizer id of the given group within a
// transaction, or sql.ErrNoRows when the group does not exist. Delete
// uses this so the ownership check and the delete observe the same
// state.
func (r *GroupRepo) OrganizerOfTx(ctx context.Context, tx *sql.Tx, groupID int64) (int64, error) {
	const q = `SELECT organizer_id FROM study_groups WHERE group_id = ?`
	var organizerID int64
	if err := tx.QueryRowContext(ctx, q, groupID).Scan(&organizerID); err != nil {
		return 0, err
	}
	return organizerID, nil
}

// DeleteByIDAndOwnerTx removes a group after verifying that it belongs
// to the requesting user. It returns sql.ErrNoRows when the group does
// not exist and ErrForbidden when it belongs to someone else; in both
// cases nothing is mutated. Attendee rows are removed by the ON DELETE
// CASCADE constraint in the same statement.
func (r *GroupRepo) DeleteByIDAndOwnerTx(ctx context.Context, tx *sql.Tx, groupID, userID int64) error {
	organizerID, err := r.OrganizerOfTx(ctx, tx, groupID)
	if err != nil {
		return err
	}
	if organizerID != userID {
		return ErrForbidden
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM study_groups WHERE group_id = ?`, groupID)
	return classify(err)
}

// GetDetail returns the full annotated record for one group, or
// ErrGroupNotFound when it does not exist. userID may be zero, in which
// case has_joined is false.
func (r *GroupRepo) GetDetail(ctx context.Context, groupID, userID int64) (*GroupRow, error) {
	q := selectRow + `
WHERE g.group_id = ?
GROUP BY g.group_id`
	var row GroupRow
	var joined int
	err := r.db.QueryRowContext(ctx, q, userID, groupID).Scan(
		&row.ID, &row.OwnerID, &row.Name, &row.CourseCode, &row.Description,
		&row.MaxMembers, &row.MeetingDay, &row.MeetingTime, &row.Building,
		&row.Room, &row.NextMeeting, &row.Members, &joined,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	row.HasJoined = joined == 1
	return &row, nil
}

// Search returns all groups annotated for the requesting user,
// optionally filtered by a case-insensitive substring match against the
// course code, name or description. An empty filter returns everything.
func (r *GroupRepo) Search(ctx context.Context, userID int64, filter string) ([]GroupRow, error) {
	q := selectRow
	args := []any{userID}
	if filter != "" {
		needle := "%" + strings.ToLower(filter) + "%"
		q += `
WHERE LOWER(g.course_code) LIKE ? OR LOWER(g.name) LIKE ? OR LOWER(g.description) LIKE ?`
		args = append(args, needle, needle, needle)
	}
	q += `
GROUP BY g.group_id
ORDER BY g.group_id`
	return r.queryRows(ctx, q, args...)
}

// ListJoined returns only the groups the user is a member of; every row
// carries has_joined=true by construction.
func (r *GroupRepo) ListJoined(ctx context.Context, userID int64) ([]GroupRow, error) {
	q := selectRow + `
WHERE me.user_id IS NOT NULL
GROUP BY g.group_id
ORDER BY g.group_id`
	return r.queryRows(ctx, q, userID)
}

// Count returns the total number of groups.
func (r *GroupRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM study_groups`).Scan(&n)
	return n, err
}

func (r *GroupRepo) queryRows(ctx context.Context, q string, args ...any) ([]GroupRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GroupRow, 0)
	for rows.Next() {
		var row GroupRow
		var joined int
		if err := rows.Scan(
			&row.ID, &row.OwnerID, &row.Name, &row.CourseCode, &row.Description,
			&row.MaxMembers, &row.MeetingDay, &row.MeetingTime, &row.Building,
			&row.Room, &row.NextMeeting, &row.Members, &joined,
		); err != nil {
			return nil, err
		}
		row.HasJoined = joined == 1
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
