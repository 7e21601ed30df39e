package model

// Location is a deduplicated building record. Names are unique
// (case-sensitive); creating a group in an existing building resolves to
// the existing row instead of inserting a duplicate.
type Location struct {
	ID   int64  // locations.location_id
	Name string // locations.name
}
