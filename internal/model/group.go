package model

import "time"

// Group represents a scheduled study-group session persisted in the
// database. Each group is owned by its organizer and references exactly
// one location. The ID field is the primary key and is auto-incremented
// by the DB.
//
// Fields:
//  ID          – primary key identifier.
//  OrganizerID – user who created the group; the only user allowed to
//                delete it.
//  Name        – display name of the group.
//  CourseCode  – course the group studies for.
//  Description – optional free-form description.
//  LocationID  – reference to the deduplicated location row.
//  Room        – room within the building.
//  MeetingDay  – recurring weekday, free text (e.g. "Monday").
//  MeetingTime – recurring time of day, free text (e.g. "18:00").
//  MaxMembers  – declared capacity; joins beyond it are rejected.
//  NextMeeting – next scheduled meeting, stored as text.
//  CreatedAt   – creation timestamp.
type Group struct {
	ID          int64     // study_groups.group_id
	OrganizerID int64     // study_groups.organizer_id
	Name        string    // study_groups.name
	CourseCode  string    // study_groups.course_code
	Description *string   // study_groups.description (nullable)
	LocationID  int64     // study_groups.location_id
	Room        string    // study_groups.room
	MeetingDay  string    // study_groups.meeting_day
	MeetingTime string    // study_groups.meeting_time
	MaxMembers  int       // study_groups.max_members
	NextMeeting string    // study_groups.next_meeting
	CreatedAt   time.Time // study_groups.created_at
}
