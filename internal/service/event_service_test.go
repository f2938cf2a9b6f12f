package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/repository"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
)

type eventRepoStub struct {
	sweepCalls  int
	sweepCount  int64
	sweepErr    error
	events      []models.Event
	total       int
	listErr     error
	detail      *models.EventDetail
	findErr     error
	createErr   error
	created     *models.Event
	createdIDs  []string
	updateErr   error
	cancelErr   error
	deleteErr   error
	replaceErr  error
	replacedIDs []string
	stats       *models.EventStats
	statsErr    error
}

func (s *eventRepoStub) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	s.sweepCalls++
	return s.sweepCount, s.sweepErr
}

func (s *eventRepoStub) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	return s.events, s.total, s.listErr
}

func (s *eventRepoStub) FindByID(ctx context.Context, id string) (*models.EventDetail, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.detail, nil
}

func (s *eventRepoStub) CreateWithRoster(ctx context.Context, event *models.Event, attendeeIDs []string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = event
	s.createdIDs = attendeeIDs
	return nil
}

func (s *eventRepoStub) Update(ctx context.Context, event *models.Event) error { return s.updateErr }
func (s *eventRepoStub) Cancel(ctx context.Context, id string) error          { return s.cancelErr }
func (s *eventRepoStub) Delete(ctx context.Context, id string) error          { return s.deleteErr }

func (s *eventRepoStub) ReplaceRoster(ctx context.Context, eventID string, attendeeIDs []string) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replacedIDs = attendeeIDs
	return nil
}

func (s *eventRepoStub) Stats(ctx context.Context, now time.Time) (*models.EventStats, error) {
	return s.stats, s.statsErr
}

type attendeeReaderStub struct {
	inactive map[string]bool
	err      error
}

func (s *attendeeReaderStub) ActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	active := make([]string, 0, len(ids))
	for _, id := range ids {
		if !s.inactive[id] {
			active = append(active, id)
		}
	}
	return active, nil
}

func newEventService(repo *eventRepoStub) *EventService {
	return NewEventService(repo, &attendeeReaderStub{}, nil, nil, nil, nil)
}

func scheduledDetail(id string) *models.EventDetail {
	return &models.EventDetail{Event: models.Event{
		ID:       id,
		Title:    "Monthly drill",
		Date:     time.Now().UTC().Add(24 * time.Hour),
		Time:     "19:30",
		Location: "Station 1",
		Reason:   "Regular monthly training session",
		State:    models.EventScheduled,
	}}
}

func TestEventListSweepsFirst(t *testing.T) {
	repo := &eventRepoStub{sweepCount: 2}
	svc := newEventService(repo)

	_, pagination, err := svc.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.sweepCalls)
	require.Equal(t, 1, pagination.Page)
}

func TestEventListSweepFailureAbortsRead(t *testing.T) {
	repo := &eventRepoStub{sweepErr: sql.ErrConnDone}
	svc := newEventService(repo)

	_, _, err := svc.List(context.Background(), models.EventFilter{})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestEventCreateDeduplicatesRoster(t *testing.T) {
	repo := &eventRepoStub{}
	svc := newEventService(repo)

	req := dto.CreateEventRequest{
		Title:       "Monthly drill",
		Date:        time.Now().UTC().Add(48 * time.Hour),
		Time:        "19:30",
		Location:    "Station 1",
		Reason:      "Regular monthly training session",
		AttendeeIDs: []string{"ff-1", "ff-2", "ff-1"},
	}
	event, err := svc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	require.Equal(t, []string{"ff-1", "ff-2"}, repo.createdIDs)
	require.Equal(t, models.EventScheduled, event.State)
	require.Equal(t, "user-1", event.CreatedBy)
}

func TestEventCreateNamesInvalidAttendees(t *testing.T) {
	repo := &eventRepoStub{}
	svc := NewEventService(repo, &attendeeReaderStub{inactive: map[string]bool{"ghost": true}}, nil, nil, nil, nil)

	req := dto.CreateEventRequest{
		Title:       "Monthly drill",
		Date:        time.Now().UTC(),
		Time:        "19:30",
		Location:    "Station 1",
		Reason:      "Regular monthly training session",
		AttendeeIDs: []string{"ff-1", "ghost"},
	}
	_, err := svc.Create(context.Background(), "user-1", req)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidAttendee.Code, appErr.Code)
	require.Contains(t, appErr.Message, "ghost")
	require.NotContains(t, appErr.Message, "ff-1,")
	require.Nil(t, repo.created)
}

func TestEventCreateMapsInvalidAttendeeRace(t *testing.T) {
	// Attendee went inactive between the roster check and the insert; the
	// repository's in-transaction guard still maps to the same error.
	repo := &eventRepoStub{createErr: repository.ErrAttendeeUnavailable}
	svc := newEventService(repo)

	req := dto.CreateEventRequest{
		Title:       "Monthly drill",
		Date:        time.Now().UTC(),
		Time:        "19:30",
		Location:    "Station 1",
		Reason:      "Regular monthly training session",
		AttendeeIDs: []string{"ghost"},
	}
	_, err := svc.Create(context.Background(), "user-1", req)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidAttendee.Code, appErr.Code)
}

func TestEventReplaceRosterNamesInvalidAttendees(t *testing.T) {
	repo := &eventRepoStub{detail: scheduledDetail("evt-1")}
	svc := NewEventService(repo, &attendeeReaderStub{inactive: map[string]bool{"ff-9": true}}, nil, nil, nil, nil)

	_, err := svc.ReplaceRoster(context.Background(), "evt-1", dto.ReplaceRosterRequest{
		AttendeeIDs: []string{"ff-2", "ff-9"},
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidAttendee.Code, appErr.Code)
	require.Contains(t, appErr.Message, "ff-9")
	require.Nil(t, repo.replacedIDs)
}

func TestEventUpdateImmutableWhenRealized(t *testing.T) {
	detail := scheduledDetail("evt-1")
	detail.State = models.EventRealized
	repo := &eventRepoStub{detail: detail}
	svc := newEventService(repo)

	title := "Changed"
	_, err := svc.Update(context.Background(), "evt-1", dto.UpdateEventRequest{Title: &title})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrImmutableState.Code, appErr.Code)
}

func TestEventUpdateRaceLosesToTransition(t *testing.T) {
	repo := &eventRepoStub{
		detail:    scheduledDetail("evt-1"),
		updateErr: &repository.StateConflictError{State: models.EventRealized},
	}
	svc := newEventService(repo)

	title := "Changed"
	_, err := svc.Update(context.Background(), "evt-1", dto.UpdateEventRequest{Title: &title})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrImmutableState.Code, appErr.Code)
}

func TestEventCancelMapsInvalidTransition(t *testing.T) {
	repo := &eventRepoStub{
		detail:    scheduledDetail("evt-1"),
		cancelErr: &repository.StateConflictError{State: models.EventCancelled},
	}
	svc := newEventService(repo)

	_, err := svc.Cancel(context.Background(), "evt-1")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestEventCancelUnknown(t *testing.T) {
	repo := &eventRepoStub{cancelErr: sql.ErrNoRows}
	svc := newEventService(repo)

	_, err := svc.Cancel(context.Background(), "missing")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEventDeleteRealizedRejected(t *testing.T) {
	repo := &eventRepoStub{deleteErr: &repository.StateConflictError{State: models.EventRealized}}
	svc := newEventService(repo)

	err := svc.Delete(context.Background(), "evt-1")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrImmutableState.Code, appErr.Code)
}

func TestEventReplaceRosterDeduplicates(t *testing.T) {
	repo := &eventRepoStub{detail: scheduledDetail("evt-1")}
	svc := newEventService(repo)

	detail, err := svc.ReplaceRoster(context.Background(), "evt-1", dto.ReplaceRosterRequest{
		AttendeeIDs: []string{"ff-2", "ff-2", "ff-3"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ff-2", "ff-3"}, repo.replacedIDs)
	require.Equal(t, "evt-1", detail.ID)
}

func TestEventStatsSweepsFirst(t *testing.T) {
	repo := &eventRepoStub{stats: &models.EventStats{Total: 7}}
	svc := newEventService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.sweepCalls)
	require.Equal(t, 7, stats.Total)
}
