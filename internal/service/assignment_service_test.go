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

type ledgerStub struct {
	assignErr  error
	assigned   []*models.Assignment
	released   *models.Assignment
	releaseErr error
	active     *models.AssignmentDetail
	activeErr  error
	history    []models.AssignmentDetail
	historyErr error
}

func (s *ledgerStub) Assign(ctx context.Context, assignment *models.Assignment) error {
	if s.assignErr != nil {
		return s.assignErr
	}
	s.assigned = append(s.assigned, assignment)
	return nil
}

func (s *ledgerStub) Release(ctx context.Context, positionID string, endDate time.Time, notes *string) (*models.Assignment, error) {
	if s.releaseErr != nil {
		return nil, s.releaseErr
	}
	return s.released, nil
}

func (s *ledgerStub) GetActive(ctx context.Context, positionID string) (*models.AssignmentDetail, error) {
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	return s.active, nil
}

func (s *ledgerStub) History(ctx context.Context, positionID string) ([]models.AssignmentDetail, error) {
	return s.history, s.historyErr
}

type positionReaderStub struct {
	positions map[string]*models.Position
}

func (s positionReaderStub) FindByID(ctx context.Context, id string) (*models.Position, error) {
	if p, ok := s.positions[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type firefighterReaderStub struct {
	firefighters map[string]*models.Firefighter
}

func (s firefighterReaderStub) FindByID(ctx context.Context, id string) (*models.Firefighter, error) {
	if f, ok := s.firefighters[id]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func activeFirefighter(id string) *models.Firefighter {
	return &models.Firefighter{ID: id, FirstName: "Ana", LastName: "Rojas", Status: models.FirefighterActive}
}

func newAssignmentService(ledger *ledgerStub, positions positionReaderStub, firefighters firefighterReaderStub) *AssignmentService {
	return NewAssignmentService(ledger, positions, firefighters, nil, nil, nil)
}

func TestAssignDefaultsPeriodYearAndStartDate(t *testing.T) {
	ledger := &ledgerStub{}
	svc := newAssignmentService(ledger,
		positionReaderStub{positions: map[string]*models.Position{"pos-1": {ID: "pos-1"}}},
		firefighterReaderStub{firefighters: map[string]*models.Firefighter{"ff-1": activeFirefighter("ff-1")}})

	assignment, err := svc.Assign(context.Background(), "pos-1", dto.AssignPositionRequest{FirefighterID: "ff-1"})
	require.NoError(t, err)
	require.Len(t, ledger.assigned, 1)
	require.Equal(t, time.Now().UTC().Year(), assignment.PeriodYear)
	require.False(t, assignment.StartDate.IsZero())
	require.True(t, assignment.Active)
}

func TestAssignUnknownFirefighter(t *testing.T) {
	svc := newAssignmentService(&ledgerStub{}, positionReaderStub{}, firefighterReaderStub{})

	_, err := svc.Assign(context.Background(), "pos-1", dto.AssignPositionRequest{FirefighterID: "ghost"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAssignInactiveFirefighterRejected(t *testing.T) {
	ledger := &ledgerStub{}
	svc := newAssignmentService(ledger, positionReaderStub{}, firefighterReaderStub{
		firefighters: map[string]*models.Firefighter{
			"ff-1": {ID: "ff-1", Status: models.FirefighterInactive},
		},
	})

	_, err := svc.Assign(context.Background(), "pos-1", dto.AssignPositionRequest{FirefighterID: "ff-1"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	require.Empty(t, ledger.assigned)
}

func TestAssignMapsCapacityExceeded(t *testing.T) {
	ledger := &ledgerStub{assignErr: repository.ErrCapacityExceeded}
	svc := newAssignmentService(ledger, positionReaderStub{},
		firefighterReaderStub{firefighters: map[string]*models.Firefighter{"ff-1": activeFirefighter("ff-1")}})

	_, err := svc.Assign(context.Background(), "pos-1", dto.AssignPositionRequest{FirefighterID: "ff-1"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
}

func TestAssignMapsConflictToAlreadyAssigned(t *testing.T) {
	conflict := &models.AssignmentConflict{AssignmentID: "assign-1", PositionID: "pos-9", PositionName: "Treasurer"}
	ledger := &ledgerStub{assignErr: conflict}
	svc := newAssignmentService(ledger, positionReaderStub{},
		firefighterReaderStub{firefighters: map[string]*models.Firefighter{"ff-1": activeFirefighter("ff-1")}})

	_, err := svc.Assign(context.Background(), "pos-1", dto.AssignPositionRequest{FirefighterID: "ff-1"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrAlreadyAssigned.Code, appErr.Code)
	require.Contains(t, appErr.Message, "Treasurer")
}

func TestAssignMapsMissingPosition(t *testing.T) {
	ledger := &ledgerStub{assignErr: sql.ErrNoRows}
	svc := newAssignmentService(ledger, positionReaderStub{},
		firefighterReaderStub{firefighters: map[string]*models.Firefighter{"ff-1": activeFirefighter("ff-1")}})

	_, err := svc.Assign(context.Background(), "missing", dto.AssignPositionRequest{FirefighterID: "ff-1"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestReleaseMapsNoActiveAssignment(t *testing.T) {
	ledger := &ledgerStub{releaseErr: sql.ErrNoRows}
	svc := newAssignmentService(ledger,
		positionReaderStub{positions: map[string]*models.Position{"pos-1": {ID: "pos-1"}}},
		firefighterReaderStub{})

	_, err := svc.Release(context.Background(), "pos-1", dto.ReleasePositionRequest{})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNoActiveAssignment.Code, appErr.Code)
}

func TestReleaseUnknownPosition(t *testing.T) {
	svc := newAssignmentService(&ledgerStub{}, positionReaderStub{}, firefighterReaderStub{})

	_, err := svc.Release(context.Background(), "missing", dto.ReleasePositionRequest{})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestActiveHolderVacantReturnsNil(t *testing.T) {
	ledger := &ledgerStub{activeErr: sql.ErrNoRows}
	svc := newAssignmentService(ledger,
		positionReaderStub{positions: map[string]*models.Position{"pos-1": {ID: "pos-1"}}},
		firefighterReaderStub{})

	holder, err := svc.ActiveHolder(context.Background(), "pos-1")
	require.NoError(t, err)
	require.Nil(t, holder)
}
