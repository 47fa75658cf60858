package notes

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var joinedColumns = []string{
	"id", "display_name", "object_key", "class_id", "subject_id", "file_type_id", "uploaded_at",
	"class_name", "subject_name", "file_type_name",
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(display_name,\s*object_key,\s*class_id,\s*subject_id,\s*file_type_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*uploaded_at\s*$`
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("Chapter 1", "k.pdf", int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(10), now))

	got, err := repo.Create(context.Background(), &models.Note{
		DisplayName: "Chapter 1", ObjectKey: "k.pdf", ClassID: 1, SubjectID: 2, FileTypeID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, now, got.UploadedAt)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Note{})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*fk violation`), err.Error())
}

func TestGetByID(t *testing.T) {
	q := `(?s)FROM\s+notes\s+n\s+JOIN\s+classes\s+c.*JOIN\s+subjects\s+s.*JOIN\s+file_types\s+ft.*WHERE\s+n\.id\s*=\s*\$1$`

	t.Run("found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		rows := sqlmock.NewRows(joinedColumns).
			AddRow(int64(5), "Chapter 1", "k.pdf", int64(1), int64(2), int64(3), time.Now(), "Class 10", "Biology", "Notes")
		mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(rows)

		got, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "k.pdf", got.ObjectKey)
		assert.Equal(t, "Biology", got.SubjectName)
		assert.Equal(t, "Notes", got.FileTypeName)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 5)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+notes\s+SET\s+display_name\s*=\s*\$1,\s*class_id\s*=\s*\$2,\s*subject_id\s*=\s*\$3,\s*file_type_id\s*=\s*\$4,\s*object_key\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$6\s*$`
	note := &models.Note{ID: 5, DisplayName: "New", ClassID: 1, SubjectID: 2, FileTypeID: 3, ObjectKey: "new.pdf"}

	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("New", int64(1), int64(2), int64(3), "new.pdf", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Update(context.Background(), note))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Update(context.Background(), note), common.ErrorNotFound)
	})
}

func TestDelete(t *testing.T) {
	q := `^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1$`

	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), 5))
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs(int64(5)).WillReturnError(errors.New("db down"))
		err := repo.Delete(context.Background(), 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error: db down")
	})
}

func TestListBySubject_Ordering(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)WHERE\s+n\.subject_id\s*=\s*\$1\s+ORDER\s+BY\s+ft\.name\s+ASC,\s*n\.display_name\s+ASC$`
	rows := sqlmock.NewRows(joinedColumns).
		AddRow(int64(1), "A", "a.pdf", int64(1), int64(2), int64(3), time.Now(), "C", "S", "Notes").
		AddRow(int64(2), "B", "b.pdf", int64(1), int64(2), int64(4), time.Now(), "C", "S", "Papers")
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(rows)

	got, err := repo.ListBySubject(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Papers", got[1].FileTypeName)
}

func TestListAll_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)ORDER\s+BY\s+n\.uploaded_at\s+DESC$`).WillReturnRows(sqlmock.NewRows(joinedColumns))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*models.Note{}, got, "empty list must encode as [] not null")
}
