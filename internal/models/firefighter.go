package models

import "time"

// FirefighterStatus models roster availability.
type FirefighterStatus string

const (
	FirefighterActive   FirefighterStatus = "ACTIVE"
	FirefighterInactive FirefighterStatus = "INACTIVE"
)

// Firefighter is the slice of the personnel record this subsystem needs:
// identity, display fields and the is-active predicate. Roster CRUD lives in
// a separate service.
type Firefighter struct {
	ID        string            `db:"id" json:"id"`
	FirstName string            `db:"first_name" json:"first_name"`
	LastName  string            `db:"last_name" json:"last_name"`
	Rank      string            `db:"rank" json:"rank"`
	Status    FirefighterStatus `db:"status" json:"status"`
	PhotoURL  *string           `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// IsActive reports whether the firefighter may be assigned or summoned.
func (f *Firefighter) IsActive() bool {
	return f != nil && f.Status == FirefighterActive
}

// FullName joins first and last name for display.
func (f *Firefighter) FullName() string {
	if f == nil {
		return ""
	}
	return f.FirstName + " " + f.LastName
}
