package client

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "wardminutes.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "records", "drafts", "shell_cache"} {
		require.True(t, tableExists(t, db, table), table)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "wardminutes.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
}

func TestInitDatabase_MigrationError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	require.ErrorContains(t, err, "boom")
}

func TestNewRepositories_Wired(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "wardminutes.db"))
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositories(db)

	require.NoError(t, repos.Records.Put(ctx, &models.CachedRecord{Kind: "sacramental", ID: "ata-1", Payload: []byte(`{}`)}))
	got, err := repos.Records.Get(ctx, "sacramental", "ata-1")
	require.NoError(t, err)
	require.Equal(t, "ata-1", got.ID)

	require.NoError(t, repos.Drafts.Set(ctx, "draft:sacramental", []byte(`{}`)))
	names, err := repos.Shell.CacheNames(ctx)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestInitDatabase_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "wardminutes.db")

	db, err := InitDatabase(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
}
