// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/migrations"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/admins"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/classes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/filetypes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/notes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/stats"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/subjects"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Classes(db dbx.DBTX) classes.Repository {
	return classes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Subjects(db dbx.DBTX) subjects.Repository {
	return subjects.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) FileTypes(db dbx.DBTX) filetypes.Repository {
	return filetypes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Stats(db dbx.DBTX) stats.Repository {
	return stats.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
