package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/logging"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/knowledgehub/internal/server/storage"
	"github.com/dmitrijs2005/knowledgehub/internal/server/validation"
)

// ObjectStore is the part of the storage gateway the note workflows use.
type ObjectStore interface {
	PresignUpload(ctx context.Context, ext string) (string, string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	DeleteObject(ctx context.Context, key string) error
}

// objectKeyPattern matches keys minted by the gateway: a UUID and an
// optional alphanumeric extension.
var objectKeyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.[A-Za-z0-9]+)?$`)

// NoteInput is the metadata saved after a direct upload.
type NoteInput struct {
	DisplayName string `form:"display_name" validate:"min=1,max=200" msg_min:"Display name is required" msg_max:"Display name too long"`
	ClassID     int64  `form:"class_id" validate:"gt=0" msg:"Valid class must be selected"`
	SubjectID   int64  `form:"subject_id" validate:"gt=0" msg:"Valid subject must be selected"`
	FileTypeID  int64  `form:"file_type_id" validate:"gt=0" msg:"Valid file type must be selected"`
	ObjectKey   string `form:"object_key" validate:"required" msg:"Object key is required"`
}

// NoteUpdateInput edits a note and optionally points it at a new object.
type NoteUpdateInput struct {
	ID          int64  `form:"id" validate:"gt=0" msg:"All fields are required"`
	DisplayName string `form:"displayName" validate:"min=1,max=200" msg_min:"All fields are required" msg_max:"Display name too long"`
	ClassID     int64  `form:"classId" validate:"gt=0" msg:"All fields are required"`
	SubjectID   int64  `form:"subjectId" validate:"gt=0" msg:"All fields are required"`
	FileTypeID  int64  `form:"fileTypeId" validate:"gt=0" msg:"All fields are required"`
	// NewObjectKey is only honoured when HasReplacement is set.
	HasReplacement bool   `form:"hasReplacement"`
	NewObjectKey   string `form:"newObjectKey"`
}

// Dashboard is the admin landing data.
type Dashboard struct {
	Classes []*models.Class `json:"classes"`
	Stats   *models.Stats   `json:"stats"`
}

// FilesPage is the admin file management data.
type FilesPage struct {
	Notes     []*models.Note     `json:"notes"`
	Classes   []*models.Class    `json:"classes"`
	Subjects  []*models.Subject  `json:"subjects"`
	FileTypes []*models.FileType `json:"file_types"`
}

// UploadPage is the admin upload form data. Subjects is filled only when a
// class is preselected.
type UploadPage struct {
	Classes           []*models.Class    `json:"classes"`
	FileTypes         []*models.FileType `json:"file_types"`
	Subjects          []*models.Subject  `json:"subjects"`
	SelectedClassID   int64              `json:"selected_class_id,omitempty"`
	SelectedSubjectID int64              `json:"selected_subject_id,omitempty"`
}

// NoteService runs the note workflows that touch both the database and the
// object store.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	logger      logging.Logger
}

// NewNoteService constructs a NoteService. store may be nil when object
// storage is not configured; storage-backed calls then fail with
// common.ErrStorageUnavailable.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, l logging.Logger) *NoteService {
	return &NoteService{db: db, repomanager: m, store: store, logger: l.With("module", "note_service")}
}

func (s *NoteService) objectStore() (ObjectStore, error) {
	if s.store == nil {
		return nil, common.ErrStorageUnavailable
	}
	return s.store, nil
}

// DownloadURL resolves the delivery URL for the note's object.
func (s *NoteService) DownloadURL(ctx context.Context, noteID int64) (string, error) {
	store, err := s.objectStore()
	if err != nil {
		return "", err
	}

	note, err := s.repomanager.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return "", err
	}

	url, err := store.DownloadURL(ctx, note.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("error building download url: %w", err)
	}
	return url, nil
}

// UploadURL mints an object key for fileName's extension and a pre-signed
// PUT URL for it.
func (s *NoteService) UploadURL(ctx context.Context, fileName string) (key, url string, err error) {
	if fileName == "" {
		return "", "", common.NewValidationError("fileName", "File name is required")
	}

	store, err := s.objectStore()
	if err != nil {
		return "", "", err
	}

	key, url, err = store.PresignUpload(ctx, storage.FileExtension(fileName))
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}
	return key, url, nil
}

// Upload writes body under key. Only keys minted by UploadURL are accepted.
func (s *NoteService) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if body == nil || key == "" {
		return common.NewValidationError("file", "File and key are required")
	}
	if !objectKeyPattern.MatchString(key) {
		return common.NewValidationError("key", "Invalid object key")
	}

	store, err := s.objectStore()
	if err != nil {
		return err
	}

	if err := store.PutObject(ctx, key, body, size, contentType); err != nil {
		return fmt.Errorf("error uploading object: %w", err)
	}
	return nil
}

// SaveMetadata records a note for an object uploaded through a pre-signed URL.
func (s *NoteService) SaveMetadata(ctx context.Context, in NoteInput) (*models.Note, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !objectKeyPattern.MatchString(in.ObjectKey) {
		return nil, common.NewValidationError("object_key", "Invalid object key")
	}

	note, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		DisplayName: in.DisplayName,
		ObjectKey:   in.ObjectKey,
		ClassID:     in.ClassID,
		SubjectID:   in.SubjectID,
		FileTypeID:  in.FileTypeID,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving note: %w", err)
	}
	return note, nil
}

// Update rewrites the note's metadata. With a replacement it also switches
// the note to the new object and then deletes the old one.
//
// The old object is removed only after the row is committed, and a failed
// delete is logged, not returned: the note stays consistent and the orphaned
// object is left for out-of-band cleanup.
func (s *NoteService) Update(ctx context.Context, in NoteUpdateInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	replace := in.HasReplacement && in.NewObjectKey != ""
	if replace {
		if !objectKeyPattern.MatchString(in.NewObjectKey) {
			return common.NewValidationError("newObjectKey", "Invalid object key")
		}
		if s.store == nil {
			return common.ErrStorageUnavailable
		}
	}

	var oldKey string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		note, err := repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}

		oldKey = note.ObjectKey
		note.DisplayName = in.DisplayName
		note.ClassID = in.ClassID
		note.SubjectID = in.SubjectID
		note.FileTypeID = in.FileTypeID
		if replace {
			note.ObjectKey = in.NewObjectKey
		}

		return repo.Update(ctx, note)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating note: %w", err)
	}

	if replace && oldKey != in.NewObjectKey {
		if err := s.store.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn(ctx, "orphaned object after replace", "note_id", in.ID, "key", oldKey, "error", err)
		}
	}
	return nil
}

// Delete removes the note's object and then its row. A missing object is
// not an error; any other storage failure keeps the row.
func (s *NoteService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return common.NewValidationError("id", "Note ID is required")
	}

	store, err := s.objectStore()
	if err != nil {
		return err
	}

	repo := s.repomanager.Notes(s.db)
	note, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := store.DeleteObject(ctx, note.ObjectKey); err != nil {
		return fmt.Errorf("error deleting object: %w", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// Dashboard loads the class list and row counts.
func (s *NoteService) Dashboard(ctx context.Context) (*Dashboard, error) {
	classes, err := s.repomanager.Classes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	stats, err := s.repomanager.Stats(s.db).Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting rows: %w", err)
	}
	return &Dashboard{Classes: classes, Stats: stats}, nil
}

// FilesPage loads everything the file management screen shows.
func (s *NoteService) FilesPage(ctx context.Context) (*FilesPage, error) {
	notes, err := s.repomanager.Notes(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	classes, err := s.repomanager.Classes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	subjects, err := s.repomanager.Subjects(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	fileTypes, err := s.repomanager.FileTypes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing file types: %w", err)
	}
	return &FilesPage{Notes: notes, Classes: classes, Subjects: subjects, FileTypes: fileTypes}, nil
}

// UploadPage loads the upload form, honouring preselected class and subject.
func (s *NoteService) UploadPage(ctx context.Context, classID, subjectID int64) (*UploadPage, error) {
	classes, err := s.repomanager.Classes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	fileTypes, err := s.repomanager.FileTypes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing file types: %w", err)
	}

	page := &UploadPage{
		Classes:           classes,
		FileTypes:         fileTypes,
		Subjects:          []*models.Subject{},
		SelectedClassID:   classID,
		SelectedSubjectID: subjectID,
	}
	if classID > 0 {
		page.Subjects, err = s.repomanager.Subjects(s.db).ListByClass(ctx, classID)
		if err != nil {
			return nil, fmt.Errorf("error listing subjects: %w", err)
		}
	}
	return page, nil
}
