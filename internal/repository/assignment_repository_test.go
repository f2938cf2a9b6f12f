package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/cvb-admin/fire-company-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func expectPositionLock(mock sqlmock.Sqlmock, positionID string, maxOccupants int, active bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT max_occupants, active FROM positions WHERE id = $1 FOR UPDATE")).
		WithArgs(positionID).
		WillReturnRows(sqlmock.NewRows([]string{"max_occupants", "active"}).AddRow(maxOccupants, active))
}

func expectFirefighterStatus(mock sqlmock.Sqlmock, firefighterID, status string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM firefighters WHERE id = $1")).
		WithArgs(firefighterID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(status))
}

func TestAssignHappyPath(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	expectPositionLock(mock, "pos-1", 1, true)
	expectFirefighterStatus(mock, "ff-1", "ACTIVE")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id AS assignment_id, a.position_id, p.name AS position_name")).
		WithArgs("ff-1").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "position_id", "position_name"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assignments WHERE position_id = $1 AND active")).
		WithArgs("pos-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assignment := &models.Assignment{
		PositionID:    "pos-1",
		FirefighterID: "ff-1",
		StartDate:     time.Now().UTC(),
		PeriodYear:    2026,
	}
	require.NoError(t, repo.Assign(context.Background(), assignment))
	require.NotEmpty(t, assignment.ID)
	require.True(t, assignment.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignCapacityExceeded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	expectPositionLock(mock, "pos-1", 1, true)
	expectFirefighterStatus(mock, "ff-2", "ACTIVE")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id AS assignment_id, a.position_id, p.name AS position_name")).
		WithArgs("ff-2").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "position_id", "position_name"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assignments WHERE position_id = $1 AND active")).
		WithArgs("pos-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Assign(context.Background(), &models.Assignment{PositionID: "pos-1", FirefighterID: "ff-2"})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignConflictReportsHeldPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	expectPositionLock(mock, "pos-2", 1, true)
	expectFirefighterStatus(mock, "ff-1", "ACTIVE")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id AS assignment_id, a.position_id, p.name AS position_name")).
		WithArgs("ff-1").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "position_id", "position_name"}).
			AddRow("assign-1", "pos-1", "Treasurer"))
	mock.ExpectRollback()

	err := repo.Assign(context.Background(), &models.Assignment{PositionID: "pos-2", FirefighterID: "ff-1"})
	var conflict *models.AssignmentConflict
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "pos-1", conflict.PositionID)
	require.Equal(t, "Treasurer", conflict.PositionName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignInactivePosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	expectPositionLock(mock, "pos-1", 1, false)
	mock.ExpectRollback()

	err := repo.Assign(context.Background(), &models.Assignment{PositionID: "pos-1", FirefighterID: "ff-1"})
	require.ErrorIs(t, err, ErrPositionInactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignUnknownPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT max_occupants, active FROM positions WHERE id = $1 FOR UPDATE")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"max_occupants", "active"}))
	mock.ExpectRollback()

	err := repo.Assign(context.Background(), &models.Assignment{PositionID: "missing", FirefighterID: "ff-1"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignInactiveFirefighter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	expectPositionLock(mock, "pos-1", 2, true)
	expectFirefighterStatus(mock, "ff-3", "INACTIVE")
	mock.ExpectRollback()

	err := repo.Assign(context.Background(), &models.Assignment{PositionID: "pos-1", FirefighterID: "ff-3"})
	require.ErrorIs(t, err, ErrFirefighterInactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseClosesActiveAssignment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	endDate := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	started := endDate.AddDate(-1, 0, 0)

	rows := sqlmock.NewRows([]string{"id", "position_id", "firefighter_id", "start_date", "end_date", "active", "period_year", "notes", "created_at"}).
		AddRow("assign-1", "pos-1", "ff-1", started, endDate, false, 2025, nil, started)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE assignments")).
		WithArgs("pos-1", endDate, nil).
		WillReturnRows(rows)

	released, err := repo.Release(context.Background(), "pos-1", endDate, nil)
	require.NoError(t, err)
	require.False(t, released.Active)
	require.NotNil(t, released.EndDate)
	require.Equal(t, endDate, released.EndDate.UTC())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseMultiSeatClosesOnlyNewestHolder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	endDate := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	started := endDate.AddDate(0, -3, 0)

	// Two holders are active on the position; the update must target a single
	// row chosen by the history ordering, never every active row.
	rows := sqlmock.NewRows([]string{"id", "position_id", "firefighter_id", "start_date", "end_date", "active", "period_year", "notes", "created_at"}).
		AddRow("assign-2", "pos-1", "ff-2", started, endDate, false, 2026, nil, started)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE active AND id = (
    SELECT id FROM assignments
    WHERE position_id = $1 AND active
    ORDER BY start_date DESC, created_at DESC, id DESC
    LIMIT 1
)`)).
		WithArgs("pos-1", endDate, nil).
		WillReturnRows(rows)

	released, err := repo.Release(context.Background(), "pos-1", endDate, nil)
	require.NoError(t, err)
	require.Equal(t, "assign-2", released.ID)
	require.Equal(t, "ff-2", released.FirefighterID)
	require.False(t, released.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseWithoutActiveAssignment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE assignments")).
		WithArgs("pos-1", sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position_id", "firefighter_id", "start_date", "end_date", "active", "period_year", "notes", "created_at"}))

	_, err := repo.Release(context.Background(), "pos-1", time.Now().UTC(), nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveVacant(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectQuery("SELECT a\\.id, a\\.position_id").
		WithArgs("pos-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetActive(context.Background(), "pos-1")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryOrdersNewestFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "position_id", "firefighter_id", "start_date", "end_date", "active", "period_year", "notes", "created_at", "position_name", "first_name", "last_name", "rank", "photo_url"}).
		AddRow("assign-2", "pos-1", "ff-2", now, nil, true, 2026, nil, now, "Treasurer", "Ana", "Rojas", "Lieutenant", nil).
		AddRow("assign-1", "pos-1", "ff-1", now.AddDate(-1, 0, 0), now, false, 2025, nil, now.AddDate(-1, 0, 0), "Treasurer", "Luis", "Soto", "Firefighter", nil)
	mock.ExpectQuery("ORDER BY a\\.start_date DESC, a\\.created_at DESC, a\\.id DESC").
		WithArgs("pos-1").
		WillReturnRows(rows)

	history, err := repo.History(context.Background(), "pos-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "assign-2", history[0].ID)
	require.True(t, history[0].Active)
	require.False(t, history[1].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
