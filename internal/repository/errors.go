// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values that are reused across
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error codes themselves.
package repository

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrGroupNotFound is returned when a study group cannot be found,
// either by direct lookup or because a foreign key referenced a group
// that no longer exists.
var ErrGroupNotFound = errors.New("group not found")

// ErrAlreadyMember is returned when a join would create a duplicate
// (group_id, user_id) attendee row.
var ErrAlreadyMember = errors.New("already a member")

// ErrNotMember is returned when a leave targets a membership row that
// does not exist.
var ErrNotMember = errors.New("not a member")

// ErrGroupFull is returned when a join would exceed the group's
// declared max_members capacity.
var ErrGroupFull = errors.New("group is full")

// ErrDuplicate signals a uniqueness constraint violation that no more
// specific sentinel covers.
var ErrDuplicate = errors.New("duplicate record")

// ErrForeignKey signals that a statement referenced a row that does not
// exist.
var ErrForeignKey = errors.New("referenced record does not exist")

// classify maps SQLite constraint failures onto the sentinel errors
// above. Uniqueness violations (UNIQUE indexes and primary keys) become
// ErrDuplicate, foreign key violations become ErrForeignKey, and every
// other error passes through unchanged so callers can log it. Raw driver
// error text must never reach a client.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrForeignKey
		}
	}
	return err
}
