package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// PositionRepository persists the position catalog.
type PositionRepository struct {
	db *sqlx.DB
}

// NewPositionRepository constructs the repository.
func NewPositionRepository(db *sqlx.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// List returns positions matching the filter, ordered by branch then
// hierarchy rank for display.
func (r *PositionRepository) List(ctx context.Context, filter models.PositionFilter) ([]models.Position, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Branch != nil {
		where = append(where, fmt.Sprintf("branch = $%d", len(args)+1))
		args = append(args, *filter.Branch)
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	query := fmt.Sprintf(`SELECT id, name, description, branch, hierarchy, max_occupants, active, created_at, updated_at
FROM positions WHERE %s ORDER BY branch ASC, hierarchy ASC`, strings.Join(where, " AND "))

	var positions []models.Position
	if err := r.db.SelectContext(ctx, &positions, query, args...); err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return positions, nil
}

// FindByID returns the position or sql.ErrNoRows.
func (r *PositionRepository) FindByID(ctx context.Context, id string) (*models.Position, error) {
	const query = `SELECT id, name, description, branch, hierarchy, max_occupants, active, created_at, updated_at
FROM positions WHERE id = $1`
	var position models.Position
	if err := r.db.GetContext(ctx, &position, query, id); err != nil {
		return nil, err
	}
	return &position, nil
}

// Create inserts a new position.
func (r *PositionRepository) Create(ctx context.Context, position *models.Position) error {
	if position.ID == "" {
		position.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	position.CreatedAt = now
	position.UpdatedAt = now
	const query = `INSERT INTO positions (id, name, description, branch, hierarchy, max_occupants, active, created_at, updated_at)
VALUES (:id, :name, :description, :branch, :hierarchy, :max_occupants, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, position); err != nil {
		return fmt.Errorf("create position: %w", err)
	}
	return nil
}

// Update rewrites the descriptive fields of a position.
func (r *PositionRepository) Update(ctx context.Context, position *models.Position) error {
	position.UpdatedAt = time.Now().UTC()
	const query = `UPDATE positions
SET name = :name, description = :description, branch = :branch, hierarchy = :hierarchy,
    max_occupants = :max_occupants, active = :active, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, position)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated position rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a position. Deletion is rejected while an active assignment
// exists; released history keeps its position reference.
func (r *PositionRepository) Delete(ctx context.Context, id string) error {
	return runTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM positions WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		var activeCount int
		err = tx.GetContext(ctx, &activeCount,
			`SELECT COUNT(*) FROM assignments WHERE position_id = $1 AND active`, id)
		if err != nil {
			return fmt.Errorf("count active assignments: %w", err)
		}
		if activeCount > 0 {
			return ErrActiveAssignments
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete position: %w", err)
		}
		return nil
	})
}

// Stats summarises catalog occupancy in a single round trip per figure.
func (r *PositionRepository) Stats(ctx context.Context) (*models.PositionStats, error) {
	stats := &models.PositionStats{GeneratedAt: time.Now().UTC()}

	if err := r.db.GetContext(ctx, &stats.TotalPositions, `SELECT COUNT(*) FROM positions`); err != nil {
		return nil, fmt.Errorf("count positions: %w", err)
	}
	const occupiedQuery = `SELECT COUNT(*) FROM positions p
WHERE EXISTS (SELECT 1 FROM assignments a WHERE a.position_id = p.id AND a.active)`
	if err := r.db.GetContext(ctx, &stats.Occupied, occupiedQuery); err != nil {
		return nil, fmt.Errorf("count occupied positions: %w", err)
	}
	stats.Vacant = stats.TotalPositions - stats.Occupied
	if err := r.db.GetContext(ctx, &stats.TotalAssignments, `SELECT COUNT(*) FROM assignments`); err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	const branchQuery = `SELECT branch, COUNT(*) AS count FROM positions GROUP BY branch ORDER BY branch`
	if err := r.db.SelectContext(ctx, &stats.PerBranch, branchQuery); err != nil {
		return nil, fmt.Errorf("count positions per branch: %w", err)
	}
	return stats, nil
}
