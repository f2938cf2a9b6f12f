package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// EventRepository owns citation rows and their state machine. Every state
// transition is a conditional UPDATE guarded on the current state, so
// concurrent transitions are safe: only one caller commits, the rest see
// zero rows affected.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, date, time, location, reason, state, created_by, created_at, updated_at`

// SweepOverdue flips every scheduled citation whose date is strictly in the
// past to REALIZED. Idempotent under concurrent reads.
func (r *EventRepository) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE events SET state = 'REALIZED', updated_at = $1
WHERE state = 'SCHEDULED' AND date < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("sweep overdue events: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check swept rows: %w", err)
	}
	return affected, nil
}

// List returns citations matching the filter with pagination.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.State != nil {
		where = append(where, fmt.Sprintf("state = $%d", len(args)+1))
		args = append(args, *filter.State)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR location ILIKE $%d OR reason ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"date":       "date",
		"title":      "title",
		"state":      "state",
		"created_at": "created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		eventColumns, whereClause, sortColumn, order, size, offset)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// FindByID returns the citation with its roster, or sql.ErrNoRows.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.EventDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	var detail models.EventDetail
	if err := r.db.GetContext(ctx, &detail.Event, query, id); err != nil {
		return nil, err
	}

	const rosterQuery = `SELECT ea.event_id, ea.firefighter_id, ea.attended, ea.notes, ea.created_at, ea.updated_at,
       f.first_name, f.last_name, f.rank, f.status, f.photo_url
FROM event_attendees ea
JOIN firefighters f ON f.id = ea.firefighter_id
WHERE ea.event_id = $1
ORDER BY ea.created_at ASC, ea.firefighter_id ASC`
	if err := r.db.SelectContext(ctx, &detail.Attendees, rosterQuery, id); err != nil {
		return nil, fmt.Errorf("load event roster: %w", err)
	}
	return &detail, nil
}

// CreateWithRoster inserts the citation and its initial attendance entries
// in one transaction. Any attendee id that does not resolve to an active
// firefighter aborts the whole creation.
func (r *EventRepository) CreateWithRoster(ctx context.Context, event *models.Event, attendeeIDs []string) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.State = models.EventScheduled
	event.CreatedAt = now
	event.UpdatedAt = now

	return runTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO events (id, title, date, time, location, reason, state, created_by, created_at, updated_at)
VALUES (:id, :title, :date, :time, :location, :reason, :state, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insert, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return insertRoster(ctx, tx, event.ID, attendeeIDs, now)
	})
}

// Update edits a citation's descriptive fields; the conditional guard keeps
// realized and cancelled citations untouched.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events
SET title = :title, date = :date, time = :time, location = :location, reason = :reason, updated_at = :updated_at
WHERE id = :id AND state = 'SCHEDULED'`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return r.requireAffected(ctx, result, event.ID)
}

// Cancel transitions SCHEDULED -> CANCELLED.
func (r *EventRepository) Cancel(ctx context.Context, id string) error {
	const query = `UPDATE events SET state = 'CANCELLED', updated_at = $2
WHERE id = $1 AND state = 'SCHEDULED'`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	return r.requireAffected(ctx, result, id)
}

// Delete removes a citation that was never realized; the roster goes with it.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return runTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees
WHERE event_id = $1 AND EXISTS (SELECT 1 FROM events WHERE id = $1 AND state <> 'REALIZED')`, id); err != nil {
			return fmt.Errorf("delete event roster: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND state <> 'REALIZED'`, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check deleted event rows: %w", err)
		}
		if affected == 0 {
			return r.stateConflict(ctx, id)
		}
		return nil
	})
}

// ReplaceRoster swaps the full attendee roster: delete all, insert the new
// set, all inside one transaction. Prior attendance flags are not preserved.
func (r *EventRepository) ReplaceRoster(ctx context.Context, eventID string, attendeeIDs []string) error {
	return runTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var state models.EventState
		err := tx.GetContext(ctx, &state, `SELECT state FROM events WHERE id = $1 FOR UPDATE`, eventID)
		if err != nil {
			return err
		}
		if state != models.EventScheduled {
			return &StateConflictError{State: state}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("clear event roster: %w", err)
		}
		return insertRoster(ctx, tx, eventID, attendeeIDs, time.Now().UTC())
	})
}

// Stats summarises citations per state plus recent and upcoming activity.
func (r *EventRepository) Stats(ctx context.Context, now time.Time) (*models.EventStats, error) {
	stats := &models.EventStats{GeneratedAt: now}

	const stateQuery = `SELECT
    COUNT(*) FILTER (WHERE state = 'SCHEDULED') AS scheduled,
    COUNT(*) FILTER (WHERE state = 'REALIZED') AS realized,
    COUNT(*) FILTER (WHERE state = 'CANCELLED') AS cancelled,
    COUNT(*) AS total
FROM events`
	row := struct {
		Scheduled int `db:"scheduled"`
		Realized  int `db:"realized"`
		Cancelled int `db:"cancelled"`
		Total     int `db:"total"`
	}{}
	if err := r.db.GetContext(ctx, &row, stateQuery); err != nil {
		return nil, fmt.Errorf("count events per state: %w", err)
	}
	stats.Scheduled = row.Scheduled
	stats.Realized = row.Realized
	stats.Cancelled = row.Cancelled
	stats.Total = row.Total

	lastMonth := now.AddDate(0, -1, 0)
	if err := r.db.GetContext(ctx, &stats.LastMonth,
		`SELECT COUNT(*) FROM events WHERE created_at >= $1`, lastMonth); err != nil {
		return nil, fmt.Errorf("count recent events: %w", err)
	}

	upcomingQuery := fmt.Sprintf(`SELECT %s FROM events
WHERE state = 'SCHEDULED' AND date >= $1 ORDER BY date ASC LIMIT 5`, eventColumns)
	if err := r.db.SelectContext(ctx, &stats.Upcoming, upcomingQuery, now); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return stats, nil
}

func (r *EventRepository) requireAffected(ctx context.Context, result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected event rows: %w", err)
	}
	if affected == 0 {
		return r.stateConflict(ctx, id)
	}
	return nil
}

// stateConflict distinguishes a missing event from one in a terminal state
// after a conditional update matched nothing.
func (r *EventRepository) stateConflict(ctx context.Context, id string) error {
	var state models.EventState
	if err := r.db.GetContext(ctx, &state, `SELECT state FROM events WHERE id = $1`, id); err != nil {
		return err
	}
	return &StateConflictError{State: state}
}

func insertRoster(ctx context.Context, tx *sqlx.Tx, eventID string, attendeeIDs []string, now time.Time) error {
	if len(attendeeIDs) == 0 {
		return nil
	}
	var activeCount int
	err := tx.GetContext(ctx, &activeCount,
		`SELECT COUNT(*) FROM firefighters WHERE id = ANY($1) AND status = 'ACTIVE'`, pq.Array(attendeeIDs))
	if err != nil {
		return fmt.Errorf("validate attendees: %w", err)
	}
	if activeCount != len(attendeeIDs) {
		return ErrAttendeeUnavailable
	}
	const insert = `INSERT INTO event_attendees (event_id, firefighter_id, attended, notes, created_at, updated_at)
VALUES ($1, $2, NULL, NULL, $3, $3)`
	for _, firefighterID := range attendeeIDs {
		if _, err := tx.ExecContext(ctx, insert, eventID, firefighterID, now); err != nil {
			return fmt.Errorf("add attendee %s: %w", firefighterID, err)
		}
	}
	return nil
}
