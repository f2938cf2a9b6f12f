package models

import (
	"fmt"
	"time"
)

// Assignment is a time-bounded binding of one firefighter to one position.
// Active rows are closed by a release, never deleted; released rows are
// observable history only.
type Assignment struct {
	ID            string     `db:"id" json:"id"`
	PositionID    string     `db:"position_id" json:"position_id"`
	FirefighterID string     `db:"firefighter_id" json:"firefighter_id"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	Active        bool       `db:"active" json:"active"`
	PeriodYear    int        `db:"period_year" json:"period_year"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// AssignmentDetail extends an assignment with display metadata.
type AssignmentDetail struct {
	Assignment
	PositionName string  `db:"position_name" json:"position_name"`
	FirstName    string  `db:"first_name" json:"first_name"`
	LastName     string  `db:"last_name" json:"last_name"`
	Rank         string  `db:"rank" json:"rank"`
	PhotoURL     *string `db:"photo_url" json:"photo_url,omitempty"`
}

// AssignmentConflict describes the active assignment blocking a new one.
// It is attached to ALREADY_ASSIGNED responses so callers can tell the user
// which position must be released first.
type AssignmentConflict struct {
	AssignmentID string `db:"assignment_id" json:"assignment_id"`
	PositionID   string `db:"position_id" json:"position_id"`
	PositionName string `db:"position_name" json:"position_name"`
}

// Error implements the error interface.
func (c *AssignmentConflict) Error() string {
	return fmt.Sprintf("firefighter already holds the position %q", c.PositionName)
}
