package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestActiveIDsFiltersInactiveAndUnknown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFirefighterRepository(db)
	requested := []string{"ff-1", "ff-2", "ghost"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM firefighters WHERE id = ANY($1) AND status = 'ACTIVE'")).
		WithArgs(pq.Array(requested)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ff-1").AddRow("ff-2"))

	active, err := repo.ActiveIDs(context.Background(), requested)
	require.NoError(t, err)
	require.Equal(t, []string{"ff-1", "ff-2"}, active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveIDsEmptyInput(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFirefighterRepository(db)
	active, err := repo.ActiveIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, active)
}
