package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

// FirefighterRepository is the read-only view of the personnel registry this
// subsystem consumes: lookup by id plus the active predicate.
type FirefighterRepository struct {
	db *sqlx.DB
}

// NewFirefighterRepository constructs the repository.
func NewFirefighterRepository(db *sqlx.DB) *FirefighterRepository {
	return &FirefighterRepository{db: db}
}

// FindByID returns the firefighter or sql.ErrNoRows.
func (r *FirefighterRepository) FindByID(ctx context.Context, id string) (*models.Firefighter, error) {
	const query = `SELECT id, first_name, last_name, rank, status, photo_url, created_at
FROM firefighters WHERE id = $1`
	var ff models.Firefighter
	if err := r.db.GetContext(ctx, &ff, query, id); err != nil {
		return nil, err
	}
	return &ff, nil
}

// ActiveIDs filters the given ids down to those belonging to active
// firefighters. Order is not guaranteed.
func (r *FirefighterRepository) ActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id FROM firefighters WHERE id = ANY($1) AND status = 'ACTIVE'`
	var active []string
	if err := r.db.SelectContext(ctx, &active, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("filter active firefighters: %w", err)
	}
	return active, nil
}
