// Package schedule contains the timetable domain model: class sessions,
// schedule groups, the slot token codec, and the derived presentation views
// (day×hour grid and professor index).
package schedule

// ClassSession is one scheduled meeting of a class group.
type ClassSession struct {
	// SlotToken is the compact day+hour token, e.g. "Lun18".
	// Malformed tokens are kept as-is; decoding decides grid placement.
	SlotToken string `json:"start"`

	// Subject is the course name shown in the timetable cell.
	Subject string `json:"subj"`

	// Professor is the name of the professor teaching the session.
	Professor string `json:"prof"`

	// Room is the room identifier.
	Room string `json:"room"`
}

// Group is one class-group's full weekly timetable.
// The session order carries no schedule meaning, only encounter order.
type Group struct {
	// ID is the opaque unique identifier assigned by the backend.
	ID string `json:"id"`

	// DisplayName is the human-readable group name.
	DisplayName string `json:"nombregrupo"`

	// Sessions is the flat sequence of scheduled meetings.
	Sessions []ClassSession `json:"data"`
}
