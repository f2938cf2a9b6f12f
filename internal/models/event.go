package models

import "time"

// EventState is the lifecycle state of a citation.
//
// Transitions are monotonic: SCHEDULED may move to REALIZED (explicitly or by
// the overdue sweep) or to CANCELLED (explicitly). REALIZED and CANCELLED are
// terminal.
type EventState string

const (
	EventScheduled EventState = "SCHEDULED"
	EventRealized  EventState = "REALIZED"
	EventCancelled EventState = "CANCELLED"
)

// Valid returns true when the state is a supported value.
func (s EventState) Valid() bool {
	switch s {
	case EventScheduled, EventRealized, EventCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the state admits no further transitions.
func (s EventState) Terminal() bool {
	return s == EventRealized || s == EventCancelled
}

// Event is a citation: a scheduled meeting or activity with a roster of
// summoned firefighters.
type Event struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Date      time.Time  `db:"date" json:"date"`
	Time      string     `db:"time" json:"time"`
	Location  string     `db:"location" json:"location"`
	Reason    string     `db:"reason" json:"reason"`
	State     EventState `db:"state" json:"state"`
	CreatedBy string     `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// EventDetail extends an event with its attendance roster.
type EventDetail struct {
	Event
	Attendees []AttendanceEntryDetail `json:"attendees"`
}

// EventFilter captures list filters for citations.
type EventFilter struct {
	State     *EventState
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// EventStats summarises citations per state plus recent activity.
type EventStats struct {
	Scheduled   int       `json:"scheduled"`
	Realized    int       `json:"realized"`
	Cancelled   int       `json:"cancelled"`
	Total       int       `json:"total"`
	LastMonth   int       `json:"last_month"`
	Upcoming    []Event   `json:"upcoming"`
	GeneratedAt time.Time `json:"generated_at"`
}
