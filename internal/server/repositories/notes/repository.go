package notes

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id int64) error
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.Note, error)
	ListAll(ctx context.Context) ([]*models.Note, error)
}
