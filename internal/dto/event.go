package dto

import "time"

// CreateEventRequest defines payload for scheduling a citation. The initial
// roster is optional; every id must resolve to an active firefighter or the
// whole creation is rejected.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"required,datetime=15:04"`
	Location    string    `json:"location" validate:"required,min=3,max=300"`
	Reason      string    `json:"reason" validate:"required,min=10,max=1000"`
	AttendeeIDs []string  `json:"attendeeIds" validate:"omitempty,dive,required"`
}

// UpdateEventRequest defines payload for editing a scheduled citation.
// At least one field must be present.
type UpdateEventRequest struct {
	Title    *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Date     *time.Time `json:"date"`
	Time     *string    `json:"time" validate:"omitempty,datetime=15:04"`
	Location *string    `json:"location" validate:"omitempty,min=3,max=300"`
	Reason   *string    `json:"reason" validate:"omitempty,min=10,max=1000"`
}

// ReplaceRosterRequest swaps the full attendee roster of a citation.
type ReplaceRosterRequest struct {
	AttendeeIDs []string `json:"attendeeIds" validate:"required,min=1,dive,required"`
}
