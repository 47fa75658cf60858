package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

const selectJoined = `SELECT n.id, n.display_name, n.object_key, n.class_id, n.subject_id, n.file_type_id, n.uploaded_at,
		        c.name, s.name, ft.name
		 FROM notes n
		 JOIN classes c ON n.class_id = c.id
		 JOIN subjects s ON n.subject_id = s.id
		 JOIN file_types ft ON n.file_type_id = ft.id
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJoined(row scanner) (*models.Note, error) {
	n := &models.Note{}
	err := row.Scan(&n.ID, &n.DisplayName, &n.ObjectKey, &n.ClassID, &n.SubjectID, &n.FileTypeID, &n.UploadedAt,
		&n.ClassName, &n.SubjectName, &n.FileTypeName)
	return n, err
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (display_name, object_key, class_id, subject_id, file_type_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.DisplayName, note.ObjectKey, note.ClassID, note.SubjectID, note.FileTypeID).Scan(&note.ID, &note.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := selectJoined + `WHERE n.id = $1`

	n, err := scanJoined(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Update rewrites the metadata and object key of note.ID.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query :=
		`UPDATE notes SET display_name = $1, class_id = $2, subject_id = $3, file_type_id = $4, object_key = $5
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		note.DisplayName, note.ClassID, note.SubjectID, note.FileTypeID, note.ObjectKey, note.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListBySubject returns the notes of a subject ordered by file type then display name.
func (r *PostgresRepository) ListBySubject(ctx context.Context, subjectID int64) ([]*models.Note, error) {
	query := selectJoined +
		`WHERE n.subject_id = $1
		 ORDER BY ft.name ASC, n.display_name ASC`

	return r.list(ctx, query, subjectID)
}

// ListAll returns every note, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Note, error) {
	return r.list(ctx, selectJoined+`ORDER BY n.uploaded_at DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		n, err := scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
