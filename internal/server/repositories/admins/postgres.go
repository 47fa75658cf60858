package admins

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

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query :=
		`SELECT id, username, password_hash FROM admin
		 WHERE username = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	query :=
		`SELECT id, username, password_hash FROM admin
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Admin, error) {
	a := &models.Admin{}
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Upsert inserts the admin or replaces the password hash of an existing
// admin with the same username.
func (r *PostgresRepository) Upsert(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	query :=
		`INSERT INTO admin (username, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, admin.Username, admin.PasswordHash).Scan(&admin.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return admin, nil
}

func (r *PostgresRepository) UpdateCredentials(ctx context.Context, id int64, username, passwordHash string) error {
	query :=
		`UPDATE admin SET username = $1, password_hash = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, username, passwordHash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
