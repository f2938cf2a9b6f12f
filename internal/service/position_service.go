package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/repository"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
)

const positionStatsCacheKey = "stats:positions"

type positionRepository interface {
	List(ctx context.Context, filter models.PositionFilter) ([]models.Position, error)
	FindByID(ctx context.Context, id string) (*models.Position, error)
	Create(ctx context.Context, position *models.Position) error
	Update(ctx context.Context, position *models.Position) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.PositionStats, error)
}

type assignmentReader interface {
	ListActiveByPosition(ctx context.Context, positionID string) ([]models.AssignmentDetail, error)
}

// PositionService manages the position catalog.
type PositionService struct {
	repo        positionRepository
	assignments assignmentReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPositionService constructs PositionService.
func NewPositionService(repo positionRepository, assignments assignmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PositionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionService{repo: repo, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// List returns catalog positions with their current holders, ordered by
// branch and hierarchy.
func (s *PositionService) List(ctx context.Context, filter models.PositionFilter) ([]models.PositionDetail, error) {
	positions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list positions")
	}
	details := make([]models.PositionDetail, 0, len(positions))
	for _, position := range positions {
		holders, err := s.assignments.ListActiveByPosition(ctx, position.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position holders")
		}
		details = append(details, models.PositionDetail{Position: position, Holders: holders})
	}
	return details, nil
}

// Get returns one position with its current holders.
func (s *PositionService) Get(ctx context.Context, id string) (*models.PositionDetail, error) {
	position, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}
	holders, err := s.assignments.ListActiveByPosition(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position holders")
	}
	return &models.PositionDetail{Position: *position, Holders: holders}, nil
}

// Create adds a new catalog position. MaxOccupants defaults to 1.
func (s *PositionService) Create(ctx context.Context, req dto.CreatePositionRequest) (*models.Position, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid position payload")
	}

	maxOccupants := req.MaxOccupants
	if maxOccupants == 0 {
		maxOccupants = 1
	}
	position := &models.Position{
		Name:         req.Name,
		Branch:       models.Branch(req.Branch),
		Hierarchy:    req.Hierarchy,
		MaxOccupants: maxOccupants,
		Active:       true,
	}
	if req.Description != "" {
		position.Description = &req.Description
	}
	if err := s.repo.Create(ctx, position); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create position")
	}
	s.invalidateStats(ctx)
	return position, nil
}

// Update modifies descriptive fields of a position. Lowering MaxOccupants
// below the current holder count is rejected; existing assignments are never
// force-released.
func (s *PositionService) Update(ctx context.Context, id string, req dto.UpdatePositionRequest) (*models.Position, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid position payload")
	}

	position, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}

	if req.MaxOccupants != nil && *req.MaxOccupants < position.MaxOccupants {
		holders, err := s.assignments.ListActiveByPosition(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position holders")
		}
		if len(holders) > *req.MaxOccupants {
			return nil, appErrors.Clone(appErrors.ErrConflict, "max occupants cannot drop below current holder count")
		}
	}

	if req.Name != nil {
		position.Name = *req.Name
	}
	if req.Description != nil {
		position.Description = req.Description
	}
	if req.Branch != nil {
		position.Branch = models.Branch(*req.Branch)
	}
	if req.Hierarchy != nil {
		position.Hierarchy = *req.Hierarchy
	}
	if req.MaxOccupants != nil {
		position.MaxOccupants = *req.MaxOccupants
	}
	if req.Active != nil {
		position.Active = *req.Active
	}

	if err := s.repo.Update(ctx, position); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update position")
	}
	s.invalidateStats(ctx)
	return position, nil
}

// Delete removes a position that has no active assignment. Historical
// released assignments keep their position reference and do not block
// deletion.
func (s *PositionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case err == sql.ErrNoRows:
			return appErrors.Clone(appErrors.ErrNotFound, "position not found")
		case errors.Is(err, repository.ErrActiveAssignments):
			return appErrors.Clone(appErrors.ErrConflict, "position has an active assignment; release it first")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete position")
		}
	}
	s.invalidateStats(ctx)
	return nil
}

// Stats returns catalog occupancy figures, served from cache when warm.
func (s *PositionService) Stats(ctx context.Context) (*models.PositionStats, error) {
	if s.cache.Enabled() {
		var cached models.PositionStats
		if hit, err := s.cache.Get(ctx, positionStatsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute position stats")
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, positionStatsCacheKey, stats, 0); err != nil {
			s.logger.Warn("failed to cache position stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *PositionService) invalidateStats(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, positionStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate position stats cache", zap.Error(err))
	}
}
