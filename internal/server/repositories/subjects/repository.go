package subjects

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	ListByClass(ctx context.Context, classID int64) ([]*models.Subject, error)
	ListAll(ctx context.Context) ([]*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
}
