package models

import "time"

// Branch categorises organizational positions.
type Branch string

const (
	BranchAdministrative Branch = "ADMINISTRATIVE"
	BranchOperational    Branch = "OPERATIONAL"
	BranchCouncil        Branch = "COUNCIL"
)

// Valid returns true when the branch is a supported value.
func (b Branch) Valid() bool {
	switch b {
	case BranchAdministrative, BranchOperational, BranchCouncil:
		return true
	default:
		return false
	}
}

// Position is a named organizational role with limited capacity.
// Hierarchy is used only for display ordering.
type Position struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Branch       Branch    `db:"branch" json:"branch"`
	Hierarchy    int       `db:"hierarchy" json:"hierarchy"`
	MaxOccupants int       `db:"max_occupants" json:"max_occupants"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PositionDetail augments a position with its current holders.
type PositionDetail struct {
	Position
	Holders []AssignmentDetail `json:"holders"`
}

// PositionFilter captures list filters for the catalog.
type PositionFilter struct {
	Branch *Branch
	Active *bool
}

// PositionStats summarises catalog occupancy.
type PositionStats struct {
	TotalPositions   int           `json:"total_positions"`
	Occupied         int           `json:"occupied"`
	Vacant           int           `json:"vacant"`
	TotalAssignments int           `json:"total_assignments"`
	PerBranch        []BranchCount `json:"per_branch"`
	GeneratedAt      time.Time     `json:"generated_at"`
}

// BranchCount is a per-branch position tally.
type BranchCount struct {
	Branch Branch `db:"branch" json:"branch"`
	Count  int    `db:"count" json:"count"`
}
