package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/migrations"
	"github.com/dmitrijs2005/wardminutes/internal/client/repositories/drafts"
	localrecords "github.com/dmitrijs2005/wardminutes/internal/client/repositories/records"
	"github.com/dmitrijs2005/wardminutes/internal/client/repositories/shellcache"
	"github.com/dmitrijs2005/wardminutes/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local stores opened on one SQLite database.
type Repositories struct {
	Records localrecords.Repository
	Drafts  drafts.Repository
	Shell   shellcache.Repository
}

var gooseUpContext = goose.UpContext

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at dsn and
// migrates it. A single connection is used so the REPL and the auto-save
// loop never contend for the write lock.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if filex.IsPlainPath(dsn) {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return db, nil
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Records: localrecords.NewSQLiteRepository(db),
		Drafts:  drafts.NewSQLiteRepository(db),
		Shell:   shellcache.NewSQLiteRepository(db),
	}
}
