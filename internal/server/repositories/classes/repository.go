package classes

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Class, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
}
