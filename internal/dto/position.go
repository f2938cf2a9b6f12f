package dto

import "time"

// CreatePositionRequest defines payload for creating a catalog position.
type CreatePositionRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=100"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	Branch       string `json:"branch" validate:"required,oneof=ADMINISTRATIVE OPERATIONAL COUNCIL"`
	Hierarchy    int    `json:"hierarchy" validate:"required,min=1,max=10"`
	MaxOccupants int    `json:"maxOccupants" validate:"omitempty,min=1,max=10"`
}

// UpdatePositionRequest defines payload for editing a position. All fields
// are optional; at least one must be present.
type UpdatePositionRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	Branch       *string `json:"branch" validate:"omitempty,oneof=ADMINISTRATIVE OPERATIONAL COUNCIL"`
	Hierarchy    *int    `json:"hierarchy" validate:"omitempty,min=1,max=10"`
	MaxOccupants *int    `json:"maxOccupants" validate:"omitempty,min=1,max=10"`
	Active       *bool   `json:"active"`
}

// AssignPositionRequest binds a firefighter to a position.
type AssignPositionRequest struct {
	FirefighterID string     `json:"firefighterId" validate:"required"`
	StartDate     *time.Time `json:"startDate"`
	PeriodYear    int        `json:"periodYear" validate:"omitempty,min=2000,max=2100"`
	Notes         string     `json:"notes" validate:"omitempty,max=500"`
}

// ReleasePositionRequest closes the active assignment on a position.
type ReleasePositionRequest struct {
	EndDate *time.Time `json:"endDate"`
	Notes   string     `json:"notes" validate:"omitempty,max=500"`
}
