package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/repository"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
)

const eventStatsCacheKey = "stats:events"

type eventRepository interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	FindByID(ctx context.Context, id string) (*models.EventDetail, error)
	CreateWithRoster(ctx context.Context, event *models.Event, attendeeIDs []string) error
	Update(ctx context.Context, event *models.Event) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ReplaceRoster(ctx context.Context, eventID string, attendeeIDs []string) error
	Stats(ctx context.Context, now time.Time) (*models.EventStats, error)
}

type attendeeReader interface {
	ActiveIDs(ctx context.Context, ids []string) ([]string, error)
}

// EventService manages citations and their lifecycle. Scheduled citations
// whose date has passed are realized lazily: every read path first runs a
// sweep that flips overdue SCHEDULED rows to REALIZED, so callers never
// observe a stale state.
type EventService struct {
	repo      eventRepository
	attendees attendeeReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs EventService.
func NewEventService(repo eventRepository, attendees attendeeReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, attendees: attendees, cache: cache, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// sweep realizes overdue scheduled citations before a read. A sweep failure
// aborts the read; serving a stale SCHEDULED state would violate the
// lifecycle contract.
func (s *EventService) sweep(ctx context.Context) error {
	realized, err := s.repo.SweepOverdue(ctx, s.now().UTC())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to realize overdue events")
	}
	if s.metrics != nil {
		s.metrics.ObserveSweep(realized)
	}
	if realized > 0 {
		s.logger.Info("realized overdue events", zap.Int64("count", realized))
		s.invalidateStats(ctx)
	}
	return nil
}

// List returns citations matching the filter with pagination metadata.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, nil, err
	}
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return events, pagination, nil
}

// Get returns one citation with its roster.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return detail, nil
}

// Create schedules a new citation, optionally summoning an initial roster.
// Every attendee must be an active firefighter or the whole creation fails.
func (s *EventService) Create(ctx context.Context, createdBy string, req dto.CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	roster := dedupeIDs(req.AttendeeIDs)
	if err := s.checkAttendees(ctx, roster); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:     req.Title,
		Date:      req.Date.UTC(),
		Time:      req.Time,
		Location:  req.Location,
		Reason:    req.Reason,
		State:     models.EventScheduled,
		CreatedBy: createdBy,
	}
	if err := s.repo.CreateWithRoster(ctx, event, roster); err != nil {
		if errors.Is(err, repository.ErrAttendeeUnavailable) {
			return nil, appErrors.Clone(appErrors.ErrInvalidAttendee, "roster references an unknown or inactive firefighter")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidateStats(ctx)
	return event, nil
}

// Update edits the descriptive fields of a citation. Only SCHEDULED citations
// may be edited; realized and cancelled ones are immutable.
func (s *EventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if detail.State != models.EventScheduled {
		return nil, appErrors.Clone(appErrors.ErrImmutableState, "only scheduled events can be edited")
	}

	event := detail.Event
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Date != nil {
		event.Date = req.Date.UTC()
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Reason != nil {
		event.Reason = *req.Reason
	}

	if err := s.repo.Update(ctx, &event); err != nil {
		var conflict *repository.StateConflictError
		switch {
		case err == sql.ErrNoRows:
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		case errors.As(err, &conflict):
			// The state moved between the read and the conditional write.
			return nil, appErrors.Clone(appErrors.ErrImmutableState, "only scheduled events can be edited")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
		}
	}
	return &event, nil
}

// Cancel moves a SCHEDULED citation to CANCELLED. Terminal states reject the
// transition.
func (s *EventService) Cancel(ctx context.Context, id string) (*models.EventDetail, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		var conflict *repository.StateConflictError
		switch {
		case err == sql.ErrNoRows:
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		case errors.As(err, &conflict):
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "event is "+string(conflict.State)+" and can no longer be cancelled")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel event")
		}
	}
	s.invalidateStats(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return detail, nil
}

// Delete removes a citation and its roster. Realized citations carry
// attendance history and cannot be deleted.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.sweep(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		var conflict *repository.StateConflictError
		switch {
		case err == sql.ErrNoRows:
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		case errors.As(err, &conflict):
			return appErrors.Clone(appErrors.ErrImmutableState, "realized events cannot be deleted")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
		}
	}
	s.invalidateStats(ctx)
	return nil
}

// ReplaceRoster swaps the full attendee roster of a SCHEDULED citation.
// Previously recorded attendance for removed members is discarded.
func (s *EventService) ReplaceRoster(ctx context.Context, id string, req dto.ReplaceRosterRequest) (*models.EventDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	roster := dedupeIDs(req.AttendeeIDs)
	if err := s.checkAttendees(ctx, roster); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceRoster(ctx, id, roster); err != nil {
		var conflict *repository.StateConflictError
		switch {
		case err == sql.ErrNoRows:
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		case errors.As(err, &conflict):
			return nil, appErrors.Clone(appErrors.ErrImmutableState, "only scheduled events accept roster changes")
		case errors.Is(err, repository.ErrAttendeeUnavailable):
			return nil, appErrors.Clone(appErrors.ErrInvalidAttendee, "roster references an unknown or inactive firefighter")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace roster")
		}
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return detail, nil
}

// Stats returns citation counts per state plus upcoming activity, served
// from cache when warm.
func (s *EventService) Stats(ctx context.Context) (*models.EventStats, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	if s.cache.Enabled() {
		var cached models.EventStats
		if hit, err := s.cache.Get(ctx, eventStatsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}
	stats, err := s.repo.Stats(ctx, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute event stats")
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, eventStatsCacheKey, stats, 0); err != nil {
			s.logger.Warn("failed to cache event stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *EventService) invalidateStats(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, eventStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate event stats cache", zap.Error(err))
	}
}

// checkAttendees resolves the roster against the personnel registry and names
// every id that is unknown or inactive. The repository repeats the check
// inside its transaction, so a status change between here and the write still
// cannot slip an invalid attendee onto a roster.
func (s *EventService) checkAttendees(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	active, err := s.attendees.ActiveIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify roster")
	}
	if len(active) == len(ids) {
		return nil
	}
	activeSet := make(map[string]struct{}, len(active))
	for _, id := range active {
		activeSet[id] = struct{}{}
	}
	missing := make([]string, 0, len(ids)-len(active))
	for _, id := range ids {
		if _, ok := activeSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return appErrors.Clone(appErrors.ErrInvalidAttendee,
		"roster references unknown or inactive firefighters: "+strings.Join(missing, ", "))
}

// dedupeIDs drops duplicate ids while preserving order.
func dedupeIDs(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
