package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// AssignmentRepository is the ledger of current and historical position
// holders. It is the sole mutator of the assignments table and enforces the
// capacity and exclusivity invariants inside its own transactions; a partial
// unique index on (firefighter_id) WHERE active backs the exclusivity check
// against concurrent assigns.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailColumns = `a.id, a.position_id, a.firefighter_id, a.start_date, a.end_date, a.active,
       a.period_year, a.notes, a.created_at,
       p.name AS position_name, f.first_name, f.last_name, f.rank, f.photo_url`

// Assign opens a new active assignment. All preconditions are checked inside
// one transaction: the position row is locked, the active-holder count is
// compared against capacity, and the firefighter must be active and hold no
// other active assignment anywhere.
func (r *AssignmentRepository) Assign(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.Active = true
	assignment.CreatedAt = time.Now().UTC()

	err := runTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var position struct {
			MaxOccupants int  `db:"max_occupants"`
			Active       bool `db:"active"`
		}
		err := tx.GetContext(ctx, &position,
			`SELECT max_occupants, active FROM positions WHERE id = $1 FOR UPDATE`, assignment.PositionID)
		if err != nil {
			return err
		}
		if !position.Active {
			return ErrPositionInactive
		}

		var status models.FirefighterStatus
		err = tx.GetContext(ctx, &status,
			`SELECT status FROM firefighters WHERE id = $1`, assignment.FirefighterID)
		if err == sql.ErrNoRows {
			return ErrFirefighterInactive
		}
		if err != nil {
			return err
		}
		if status != models.FirefighterActive {
			return ErrFirefighterInactive
		}

		var conflict models.AssignmentConflict
		err = tx.GetContext(ctx, &conflict, `SELECT a.id AS assignment_id, a.position_id, p.name AS position_name
FROM assignments a JOIN positions p ON p.id = a.position_id
WHERE a.firefighter_id = $1 AND a.active`, assignment.FirefighterID)
		if err == nil {
			return &conflict
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check active assignment: %w", err)
		}

		var activeCount int
		err = tx.GetContext(ctx, &activeCount,
			`SELECT COUNT(*) FROM assignments WHERE position_id = $1 AND active`, assignment.PositionID)
		if err != nil {
			return fmt.Errorf("count position holders: %w", err)
		}
		if activeCount >= position.MaxOccupants {
			return ErrCapacityExceeded
		}

		const insert = `INSERT INTO assignments (id, position_id, firefighter_id, start_date, end_date, active, period_year, notes, created_at)
VALUES (:id, :position_id, :firefighter_id, :start_date, :end_date, :active, :period_year, :notes, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insert, assignment); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		return nil
	})
	if err != nil && isUniqueViolation(err) {
		// Lost the race on the partial unique index; report the winner.
		if conflict, lookupErr := r.activeConflict(ctx, assignment.FirefighterID); lookupErr == nil && conflict != nil {
			return conflict
		}
		return &models.AssignmentConflict{}
	}
	return err
}

func (r *AssignmentRepository) activeConflict(ctx context.Context, firefighterID string) (*models.AssignmentConflict, error) {
	var conflict models.AssignmentConflict
	err := r.db.GetContext(ctx, &conflict, `SELECT a.id AS assignment_id, a.position_id, p.name AS position_name
FROM assignments a JOIN positions p ON p.id = a.position_id
WHERE a.firefighter_id = $1 AND a.active`, firefighterID)
	if err != nil {
		return nil, err
	}
	return &conflict, nil
}

// Release closes one active assignment on a position with a single
// conditional update. On multi-seat positions only the most recent holder is
// released, one per call, same ordering as History. Zero rows matched means
// nothing was active; under concurrent releases each caller closes a
// different row. New notes overwrite the original only when provided.
func (r *AssignmentRepository) Release(ctx context.Context, positionID string, endDate time.Time, notes *string) (*models.Assignment, error) {
	const query = `UPDATE assignments
SET active = false, end_date = $2, notes = COALESCE($3, notes)
WHERE active AND id = (
    SELECT id FROM assignments
    WHERE position_id = $1 AND active
    ORDER BY start_date DESC, created_at DESC, id DESC
    LIMIT 1
)
RETURNING id, position_id, firefighter_id, start_date, end_date, active, period_year, notes, created_at`
	var released models.Assignment
	if err := r.db.GetContext(ctx, &released, query, positionID, endDate, notes); err != nil {
		return nil, err
	}
	return &released, nil
}

// GetActive returns the active assignment for a position, or sql.ErrNoRows.
func (r *AssignmentRepository) GetActive(ctx context.Context, positionID string) (*models.AssignmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
FROM assignments a
JOIN positions p ON p.id = a.position_id
JOIN firefighters f ON f.id = a.firefighter_id
WHERE a.position_id = $1 AND a.active`, assignmentDetailColumns)
	var detail models.AssignmentDetail
	if err := r.db.GetContext(ctx, &detail, query, positionID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListActiveByPosition returns all current holders for multi-seat positions.
func (r *AssignmentRepository) ListActiveByPosition(ctx context.Context, positionID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
FROM assignments a
JOIN positions p ON p.id = a.position_id
JOIN firefighters f ON f.id = a.firefighter_id
WHERE a.position_id = $1 AND a.active
ORDER BY a.start_date DESC, a.created_at DESC, a.id DESC`, assignmentDetailColumns)
	var holders []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &holders, query, positionID); err != nil {
		return nil, fmt.Errorf("list position holders: %w", err)
	}
	return holders, nil
}

// History returns every assignment ever made on the position, newest start
// date first; ties break on insertion order descending so the sequence is
// deterministic.
func (r *AssignmentRepository) History(ctx context.Context, positionID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
FROM assignments a
JOIN positions p ON p.id = a.position_id
JOIN firefighters f ON f.id = a.firefighter_id
WHERE a.position_id = $1
ORDER BY a.start_date DESC, a.created_at DESC, a.id DESC`, assignmentDetailColumns)
	var history []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &history, query, positionID); err != nil {
		return nil, fmt.Errorf("list assignment history: %w", err)
	}
	return history, nil
}
