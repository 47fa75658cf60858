package filetypes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow(int64(1), "Notes", time.Now()).
		AddRow(int64(2), "Question Papers", time.Now())
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*created_at\s+FROM\s+file_types\s+ORDER\s+BY\s+name\s+ASC\s*$`).WillReturnRows(rows)

	got, err := NewPostgresRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Question Papers", got[1].Name)
}

func TestList_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+file_types`).WillReturnError(errors.New("boom"))

	_, err = NewPostgresRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
