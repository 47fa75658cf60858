package filetypes

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

// List returns all file types ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.FileType, error) {
	query :=
		`SELECT id, name, created_at FROM file_types
		 ORDER BY name ASC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.FileType{}
	for rows.Next() {
		ft := &models.FileType{}
		if err := rows.Scan(&ft.ID, &ft.Name, &ft.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
