package models

import "time"

// AttendanceEntry is the roll entry for one firefighter on one event.
// Attended is tri-state: nil while pending, then true or false once recorded.
type AttendanceEntry struct {
	EventID       string    `db:"event_id" json:"event_id"`
	FirefighterID string    `db:"firefighter_id" json:"firefighter_id"`
	Attended      *bool     `db:"attended" json:"attended"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceEntryDetail extends an entry with firefighter display fields.
type AttendanceEntryDetail struct {
	AttendanceEntry
	FirstName string            `db:"first_name" json:"first_name"`
	LastName  string            `db:"last_name" json:"last_name"`
	Rank      string            `db:"rank" json:"rank"`
	Status    FirefighterStatus `db:"status" json:"status"`
	PhotoURL  *string           `db:"photo_url" json:"photo_url,omitempty"`
}

// AttendanceSummary is derived by scanning entries; no counters are stored.
type AttendanceSummary struct {
	Invited  int `db:"invited" json:"invited"`
	Attended int `db:"attended" json:"attended"`
	Absent   int `db:"absent" json:"absent"`
	Pending  int `db:"pending" json:"pending"`
}
