package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wardminutes/internal/dbx"
	"github.com/dmitrijs2005/wardminutes/internal/server/repositories/documents"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
}
