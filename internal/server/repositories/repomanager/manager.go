package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/knowledgehub/internal/dbx"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/admins"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/classes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/filetypes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/notes"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/stats"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/subjects"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Classes(db dbx.DBTX) classes.Repository
	Subjects(db dbx.DBTX) subjects.Repository
	FileTypes(db dbx.DBTX) filetypes.Repository
	Notes(db dbx.DBTX) notes.Repository
	Stats(db dbx.DBTX) stats.Repository
}
