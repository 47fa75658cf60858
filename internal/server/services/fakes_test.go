package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/admins"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/classes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/filetypes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/notes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/stats"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/subjects"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeRM hands out the same fake repositories regardless of DBTX.
type fakeRM struct {
	admins    *fakeAdminsRepo
	classes   *fakeClassesRepo
	subjects  *fakeSubjectsRepo
	fileTypes *fakeFileTypesRepo
	notes     *fakeNotesRepo
	stats     *fakeStatsRepo
}

func newFakeRM() *fakeRM {
	return &fakeRM{
		admins:    &fakeAdminsRepo{},
		classes:   &fakeClassesRepo{},
		subjects:  &fakeSubjectsRepo{},
		fileTypes: &fakeFileTypesRepo{},
		notes:     &fakeNotesRepo{},
		stats:     &fakeStatsRepo{},
	}
}

func (f *fakeRM) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (f *fakeRM) Admins(dbx.DBTX) admins.Repository              { return f.admins }
func (f *fakeRM) Classes(dbx.DBTX) classes.Repository            { return f.classes }
func (f *fakeRM) Subjects(dbx.DBTX) subjects.Repository          { return f.subjects }
func (f *fakeRM) FileTypes(dbx.DBTX) filetypes.Repository        { return f.fileTypes }
func (f *fakeRM) Notes(dbx.DBTX) notes.Repository                { return f.notes }
func (f *fakeRM) Stats(dbx.DBTX) stats.Repository                { return f.stats }

type fakeAdminsRepo struct {
	byName map[string]*models.Admin
	getErr error

	updatedID   int64
	updatedName string
	updatedHash string
	updateErr   error
}

func (f *fakeAdminsRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byName[username]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdminsRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byName {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdminsRepo) Upsert(_ context.Context, a *models.Admin) (*models.Admin, error) {
	return a, nil
}

func (f *fakeAdminsRepo) UpdateCredentials(_ context.Context, id int64, username, hash string) error {
	f.updatedID, f.updatedName, f.updatedHash = id, username, hash
	return f.updateErr
}

type fakeClassesRepo struct {
	list    []*models.Class
	listErr error
}

func (f *fakeClassesRepo) List(context.Context) ([]*models.Class, error) {
	return f.list, f.listErr
}

func (f *fakeClassesRepo) GetByID(_ context.Context, id int64) (*models.Class, error) {
	for _, c := range f.list {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeSubjectsRepo struct {
	byClass map[int64][]*models.Subject
	err     error
}

func (f *fakeSubjectsRepo) ListByClass(_ context.Context, classID int64) ([]*models.Subject, error) {
	return f.byClass[classID], f.err
}

func (f *fakeSubjectsRepo) ListAll(context.Context) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, s := range f.byClass {
		out = append(out, s...)
	}
	return out, f.err
}

func (f *fakeSubjectsRepo) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	for _, list := range f.byClass {
		for _, s := range list {
			if s.ID == id {
				return s, nil
			}
		}
	}
	return nil, common.ErrorNotFound
}

type fakeFileTypesRepo struct {
	list []*models.FileType
	err  error
}

func (f *fakeFileTypesRepo) List(context.Context) ([]*models.FileType, error) {
	return f.list, f.err
}

type fakeNotesRepo struct {
	byID      map[int64]*models.Note
	bySubject map[int64][]*models.Note

	created   *models.Note
	createErr error
	updated   *models.Note
	updateErr error
	deleted   []int64
	deleteErr error
	listErr   error
}

func (f *fakeNotesRepo) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	n.ID = 100
	f.created = n
	return n, nil
}

func (f *fakeNotesRepo) GetByID(_ context.Context, id int64) (*models.Note, error) {
	if n, ok := f.byID[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotesRepo) Update(_ context.Context, n *models.Note) error {
	f.updated = n
	return f.updateErr
}

func (f *fakeNotesRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeNotesRepo) ListBySubject(_ context.Context, subjectID int64) ([]*models.Note, error) {
	return f.bySubject[subjectID], f.listErr
}

func (f *fakeNotesRepo) ListAll(context.Context) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.byID {
		out = append(out, n)
	}
	return out, f.listErr
}

type fakeStatsRepo struct {
	out *models.Stats
	err error
}

func (f *fakeStatsRepo) Counts(context.Context) (*models.Stats, error) {
	return f.out, f.err
}

// fakeStore records calls and fails on demand.
type fakeStore struct {
	presignKey string
	presignURL string
	presignErr error
	gotExt     string

	downloadURL string
	downloadErr error

	putKey  string
	putBody []byte
	putErr  error

	deleted   []string
	deleteErr error
}

func (f *fakeStore) PresignUpload(_ context.Context, ext string) (string, string, error) {
	f.gotExt = ext
	return f.presignKey, f.presignURL, f.presignErr
}

func (f *fakeStore) DownloadURL(_ context.Context, key string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return f.downloadURL + key, nil
}

func (f *fakeStore) PutObject(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.putKey, f.putBody = key, b
	return nil
}

func (f *fakeStore) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

type fakeIssuer struct {
	token string
	err   error

	gotID   int64
	gotName string
}

func (f *fakeIssuer) Issue(id int64, name string) (string, error) {
	f.gotID, f.gotName = id, name
	return f.token, f.err
}

var errBoom = errors.New("boom")
