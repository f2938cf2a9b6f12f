package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/repository"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
)

type assignmentLedger interface {
	Assign(ctx context.Context, assignment *models.Assignment) error
	Release(ctx context.Context, positionID string, endDate time.Time, notes *string) (*models.Assignment, error)
	GetActive(ctx context.Context, positionID string) (*models.AssignmentDetail, error)
	History(ctx context.Context, positionID string) ([]models.AssignmentDetail, error)
}

type firefighterReader interface {
	FindByID(ctx context.Context, id string) (*models.Firefighter, error)
}

type positionReader interface {
	FindByID(ctx context.Context, id string) (*models.Position, error)
}

// AssignmentService manages the binding of firefighters to positions. It
// enforces two invariants: a position never exceeds its occupant cap, and a
// firefighter never holds more than one active position.
type AssignmentService struct {
	ledger       assignmentLedger
	positions    positionReader
	firefighters firefighterReader
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(ledger assignmentLedger, positions positionReader, firefighters firefighterReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{ledger: ledger, positions: positions, firefighters: firefighters, cache: cache, validator: validate, logger: logger}
}

// Assign opens a new active assignment on the position. The request is
// rejected when the firefighter is unknown or inactive, already holds an
// active position anywhere in the catalog, or the position is inactive or
// full. All checks and the insert run in one transaction.
func (s *AssignmentService) Assign(ctx context.Context, positionID string, req dto.AssignPositionRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	firefighter, err := s.firefighters.FindByID(ctx, req.FirefighterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "firefighter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load firefighter")
	}
	if !firefighter.IsActive() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "firefighter is inactive and cannot be assigned")
	}

	startDate := time.Now().UTC()
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}
	periodYear := req.PeriodYear
	if periodYear == 0 {
		periodYear = startDate.Year()
	}
	assignment := &models.Assignment{
		PositionID:    positionID,
		FirefighterID: req.FirefighterID,
		StartDate:     startDate,
		Active:        true,
		PeriodYear:    periodYear,
	}
	if req.Notes != "" {
		assignment.Notes = &req.Notes
	}

	if err := s.ledger.Assign(ctx, assignment); err != nil {
		var conflict *models.AssignmentConflict
		switch {
		case err == sql.ErrNoRows:
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		case errors.Is(err, repository.ErrPositionInactive):
			return nil, appErrors.Clone(appErrors.ErrConflict, "position is inactive")
		case errors.Is(err, repository.ErrFirefighterInactive):
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "firefighter is inactive and cannot be assigned")
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "position already has the maximum number of holders")
		case errors.As(err, &conflict):
			s.logger.Info("assignment rejected by active conflict",
				zap.String("firefighter_id", req.FirefighterID),
				zap.String("held_position_id", conflict.PositionID))
			return nil, appErrors.Clone(appErrors.ErrAlreadyAssigned, conflict.Error())
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
		}
	}
	s.invalidateStats(ctx)
	return assignment, nil
}

// Release closes the active assignment on the position. The row stays in the
// ledger as history; it is never deleted.
func (s *AssignmentService) Release(ctx context.Context, positionID string, req dto.ReleasePositionRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid release payload")
	}

	if _, err := s.positions.FindByID(ctx, positionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}

	endDate := time.Now().UTC()
	if req.EndDate != nil {
		endDate = req.EndDate.UTC()
	}
	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	assignment, err := s.ledger.Release(ctx, positionID, endDate, notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNoActiveAssignment, "position has no active assignment to release")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release assignment")
	}
	s.invalidateStats(ctx)
	return assignment, nil
}

// ActiveHolder returns the current assignment on the position, or nil when
// the position is vacant.
func (s *AssignmentService) ActiveHolder(ctx context.Context, positionID string) (*models.AssignmentDetail, error) {
	if _, err := s.positions.FindByID(ctx, positionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}
	holder, err := s.ledger.GetActive(ctx, positionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position holder")
	}
	return holder, nil
}

// History lists every assignment ever made on the position, newest first.
func (s *AssignmentService) History(ctx context.Context, positionID string) ([]models.AssignmentDetail, error) {
	if _, err := s.positions.FindByID(ctx, positionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}
	history, err := s.ledger.History(ctx, positionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment history")
	}
	return history, nil
}

func (s *AssignmentService) invalidateStats(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, positionStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate position stats cache", zap.Error(err))
	}
}
