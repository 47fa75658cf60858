package admins

import (
	"context"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	Upsert(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	UpdateCredentials(ctx context.Context, id int64, username, passwordHash string) error
}
