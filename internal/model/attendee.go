package model

import "time"

// Attendee is a membership record linking a user to a group. The
// (GroupID, UserID) pair is the primary key, so a user cannot join the
// same group twice. User ids come from an external identity space and
// are trusted as-is; there is no local user table.
type Attendee struct {
	GroupID  int64     // attendees.group_id
	UserID   int64     // attendees.user_id
	JoinedAt time.Time // attendees.joined_at
}
