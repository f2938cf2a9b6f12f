package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// AttendanceRepository mutates the per-event attendance roll. It never
// creates or removes roster membership; that belongs to the event roster
// operations.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Set records the outcome for an existing roster entry. sql.ErrNoRows means
// the firefighter was never summoned to this event.
func (r *AttendanceRepository) Set(ctx context.Context, eventID, firefighterID string, attended *bool, notes *string) (*models.AttendanceEntry, error) {
	const query = `UPDATE event_attendees
SET attended = $3, notes = COALESCE($4, notes), updated_at = $5
WHERE event_id = $1 AND firefighter_id = $2
RETURNING event_id, firefighter_id, attended, notes, created_at, updated_at`
	var entry models.AttendanceEntry
	err := r.db.GetContext(ctx, &entry, query, eventID, firefighterID, attended, notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByEvent returns the roll with firefighter display fields, in summon
// order.
func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceEntryDetail, error) {
	const query = `SELECT ea.event_id, ea.firefighter_id, ea.attended, ea.notes, ea.created_at, ea.updated_at,
       f.first_name, f.last_name, f.rank, f.status, f.photo_url
FROM event_attendees ea
JOIN firefighters f ON f.id = ea.firefighter_id
WHERE ea.event_id = $1
ORDER BY ea.created_at ASC, ea.firefighter_id ASC`
	var entries []models.AttendanceEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, eventID); err != nil {
		return nil, fmt.Errorf("list attendance entries: %w", err)
	}
	return entries, nil
}

// Summary derives counts by scanning entries; no counters are maintained, so
// the figures cannot drift.
func (r *AttendanceRepository) Summary(ctx context.Context, eventID string) (*models.AttendanceSummary, error) {
	const query = `SELECT
    COUNT(*) AS invited,
    COUNT(*) FILTER (WHERE attended IS TRUE) AS attended,
    COUNT(*) FILTER (WHERE attended IS FALSE) AS absent,
    COUNT(*) FILTER (WHERE attended IS NULL) AS pending
FROM event_attendees WHERE event_id = $1`
	var summary models.AttendanceSummary
	if err := r.db.GetContext(ctx, &summary, query, eventID); err != nil {
		return nil, fmt.Errorf("summarise attendance: %w", err)
	}
	return &summary, nil
}
