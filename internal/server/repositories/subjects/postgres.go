package subjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByClass returns the subjects of one class ordered by name.
func (r *PostgresRepository) ListByClass(ctx context.Context, classID int64) ([]*models.Subject, error) {
	query :=
		`SELECT id, name, class_id, created_at FROM subjects
		 WHERE class_id = $1
		 ORDER BY name ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Subject{}
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListAll returns every subject with its class name, ordered by class then subject.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Subject, error) {
	query :=
		`SELECT s.id, s.name, s.class_id, s.created_at, c.name
		 FROM subjects s
		 JOIN classes c ON s.class_id = c.id
		 ORDER BY c.name ASC, s.name ASC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Subject{}
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt, &s.ClassName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query :=
		`SELECT id, name, class_id, created_at FROM subjects
		 WHERE id = $1
		 `

	s := &models.Subject{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
