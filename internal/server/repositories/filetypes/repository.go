package filetypes

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.FileType, error)
}
