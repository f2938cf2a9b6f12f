package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestAttendanceSetUpdatesRosterEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	attended := true
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"event_id", "firefighter_id", "attended", "notes", "created_at", "updated_at"}).
		AddRow("evt-1", "ff-1", attended, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE event_attendees")).
		WithArgs("evt-1", "ff-1", &attended, nil, sqlmock.AnyArg()).
		WillReturnRows(rows)

	entry, err := repo.Set(context.Background(), "evt-1", "ff-1", &attended, nil)
	require.NoError(t, err)
	require.NotNil(t, entry.Attended)
	require.True(t, *entry.Attended)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSetNotOnRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	attended := false
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE event_attendees")).
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}))

	_, err := repo.Set(context.Background(), "evt-1", "stranger", &attended, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSummaryCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	rows := sqlmock.NewRows([]string{"invited", "attended", "absent", "pending"}).
		AddRow(5, 2, 1, 2)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE attended IS TRUE)")).
		WithArgs("evt-1").
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Equal(t, 5, summary.Invited)
	require.Equal(t, 2, summary.Attended)
	require.Equal(t, 1, summary.Absent)
	require.Equal(t, 2, summary.Pending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListByEvent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"event_id", "firefighter_id", "attended", "notes", "created_at", "updated_at", "first_name", "last_name", "rank", "status", "photo_url"}).
		AddRow("evt-1", "ff-1", true, nil, now, now, "Ana", "Rojas", "Lieutenant", "ACTIVE", nil).
		AddRow("evt-1", "ff-2", nil, nil, now, now, "Luis", "Soto", "Firefighter", "ACTIVE", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_attendees ea")).
		WithArgs("evt-1").
		WillReturnRows(rows)

	entries, err := repo.ListByEvent(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Nil(t, entries[1].Attended)
	require.Equal(t, "Ana", entries[0].FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}
