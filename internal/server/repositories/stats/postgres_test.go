package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)COUNT\(\*\)\s+FROM\s+classes.*COUNT\(\*\)\s+FROM\s+subjects.*COUNT\(\*\)\s+FROM\s+file_types.*COUNT\(\*\)\s+FROM\s+notes`).
		WillReturnRows(sqlmock.NewRows([]string{"c", "s", "ft", "n"}).AddRow(int64(2), int64(5), int64(3), int64(40)))

	got, err := NewPostgresRepository(db).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{Classes: 2, Subjects: 5, FileTypes: 3, Notes: 40}, got)
}

func TestCounts_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`COUNT`).WillReturnError(errors.New("db down"))

	_, err = NewPostgresRepository(db).Counts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
