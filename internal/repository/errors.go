package repository

import (
	"errors"
	"fmt"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// Sentinel errors surfaced by repositories. Services translate them into the
// API error taxonomy; repositories stay HTTP-agnostic.
var (
	ErrPositionInactive    = errors.New("position is inactive")
	ErrCapacityExceeded    = errors.New("position is at maximum occupancy")
	ErrFirefighterInactive = errors.New("firefighter is not active")
	ErrAttendeeUnavailable = errors.New("one or more attendees are unknown or inactive")
	ErrActiveAssignments   = errors.New("position still has active assignments")
)

// StateConflictError reports that a conditional event update matched no rows
// because the event is no longer in the required state.
type StateConflictError struct {
	State models.EventState
}

// Error implements the error interface.
func (e *StateConflictError) Error() string {
	return fmt.Sprintf("event is in state %s", e.State)
}
