package subjects

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestListByClass(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*class_id,\s*created_at\s+FROM\s+subjects\s+WHERE\s+class_id\s*=\s*\$1\s+ORDER\s+BY\s+name\s+ASC\s*$`
	rows := sqlmock.NewRows([]string{"id", "name", "class_id", "created_at"}).
		AddRow(int64(1), "Biology", int64(3), time.Now()).
		AddRow(int64(2), "Physics", int64(3), time.Now())
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnRows(rows)

	got, err := repo.ListByClass(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Biology", got[0].Name)
	assert.Equal(t, int64(3), got[1].ClassID)
}

func TestListByClass_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+subjects`).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "class_id", "created_at"}))

	got, err := repo.ListByClass(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListAll_JoinsClassName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+s\.id,\s*s\.name,\s*s\.class_id,\s*s\.created_at,\s*c\.name\s+FROM\s+subjects\s+s\s+JOIN\s+classes\s+c\s+ON\s+s\.class_id\s*=\s*c\.id\s+ORDER\s+BY\s+c\.name\s+ASC,\s*s\.name\s+ASC\s*$`
	rows := sqlmock.NewRows([]string{"id", "name", "class_id", "created_at", "class_name"}).
		AddRow(int64(1), "Biology", int64(3), time.Now(), "Class 10")
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Class 10", got[0].ClassName)
}

func TestListAll_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+subjects`).WillReturnError(errors.New("db down"))

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
