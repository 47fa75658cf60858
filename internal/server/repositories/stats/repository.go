package stats

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	Counts(ctx context.Context) (*models.Stats, error)
}
