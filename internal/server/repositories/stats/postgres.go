package stats

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Counts returns the number of rows in each catalog table in one round trip.
func (r *PostgresRepository) Counts(ctx context.Context) (*models.Stats, error) {
	query :=
		`SELECT (SELECT COUNT(*) FROM classes),
		        (SELECT COUNT(*) FROM subjects),
		        (SELECT COUNT(*) FROM file_types),
		        (SELECT COUNT(*) FROM notes)
		 `

	s := &models.Stats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Classes, &s.Subjects, &s.FileTypes, &s.Notes); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
