// This file defines repository methods for attendee (membership) rows.
// Joins rely on the schema's constraints instead of pre-reads: the
// composite primary key rejects duplicates and the foreign key rejects
// joins against groups that do not exist, which avoids a check-then-act
// race. Leaves use an explicit existence check because "leave a group
// you're not in" is a distinct client error, not a race to resolve.
package repository

import (
	"context"
	"database/sql"
)

// AttendeeRepo encapsulates all database queries related to attendees.
type AttendeeRepo struct {
	db *sql.DB
}

// NewAttendeeRepo constructs an AttendeeRepo with the provided DB handle.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo {
	return &AttendeeRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *AttendeeRepo) DB() *sql.DB { return r.db }

// JoinTx inserts a membership row within an existing transaction. A
// uniqueness violation means the user already joined (ErrAlreadyMember);
// a foreign key violation means the group does not exist
// (ErrGroupNotFound). Other errors pass through for the handler to log.
func (r *AttendeeRepo) JoinTx(ctx context.Context, tx *sql.Tx, groupID, userID int64) error {
	const q = `INSERT INTO attendees (group_id, user_id) VALUES (?, ?)`
	_, err := tx.ExecContext(ctx, q, groupID, userID)
	switch classify(err) {
	case nil:
		return nil
	case ErrDuplicate:
		return ErrAlreadyMember
	case ErrForeignKey:
		return ErrGroupNotFound
	default:
		return err
	}
}

// MemberCountTx returns the number of attendee rows for a group within
// a transaction. Join handlers call this after the insert so the
// capacity decision and the insert observe the same state.
func (r *AttendeeRepo) MemberCountTx(ctx context.Context, tx *sql.Tx, groupID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM attendees WHERE group_id = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, groupID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MaxMembersTx returns the declared capacity of a group within a
// transaction, or sql.ErrNoRows when the group does not exist.
func (r *AttendeeRepo) MaxMembersTx(ctx context.Context, tx *sql.Tx, groupID int64) (int, error) {
	const q = `SELECT max_members FROM study_groups WHERE group_id = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, groupID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether the (groupID, userID) membership row is
// present.
func (r *AttendeeRepo) Exists(ctx context.Context, groupID, userID int64) (bool, error) {
	const q = `SELECT 1 FROM attendees WHERE group_id = ? AND user_id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, groupID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Leave removes the membership row for (groupID, userID). It returns
// ErrNotMember when no such row exists; nothing is mutated in that
// case.
func (r *AttendeeRepo) Leave(ctx context.Context, groupID, userID int64) error {
	member, err := r.Exists(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	const q = `DELETE FROM attendees WHERE group_id = ? AND user_id = ?`
	_, err = r.db.ExecContext(ctx, q, groupID, userID)
	return classify(err)
}

// CountForGroup returns the number of members in a group.
func (r *AttendeeRepo) CountForGroup(ctx context.Context, groupID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM attendees WHERE group_id = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, groupID).Scan(&n)
	return n, err
}

// UserSummary aggregates per-user activity counters for the summary
// endpoint.
type UserSummary struct {
	UserID              int64 `json:"user_id"`
	GroupsJoined        int   `json:"groups_joined"`
	TotalUpcomingGroups int   `json:"total_upcoming_groups"`
	ActiveUsers         int   `json:"active_users"`
}

// SummaryForUser computes how many groups the user has joined, how many
// of those have a parseable next_meeting in the future, and how many
// distinct users are active across all groups. next_meeting is free
// text; rows that datetime() cannot parse are simply not counted as
// upcoming.
func (r *AttendeeRepo) SummaryForUser(ctx context.Context, userID int64) (*UserSummary, error) {
	s := &UserSummary{UserID: userID}

	const qJoined = `SELECT COUNT(*) FROM attendees WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, qJoined, userID).Scan(&s.GroupsJoined); err != nil {
		return nil, err
	}

	const qUpcoming = `SELECT COUNT(*)
        FROM attendees a
        JOIN study_groups g ON g.group_id = a.group_id
        WHERE a.user_id = ? AND datetime(g.next_meeting) >= datetime('now')`
	if err := r.db.QueryRowContext(ctx, qUpcoming, userID).Scan(&s.TotalUpcomingGroups); err != nil {
		return nil, err
	}

	const qActive = `SELECT COUNT(DISTINCT user_id) FROM attendees`
	if err := r.db.QueryRowContext(ctx, qActive).Scan(&s.ActiveUsers); err != nil {
		return nil, err
	}
	return s, nil
}
