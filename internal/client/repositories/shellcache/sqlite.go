// Package shellcache persists the offline shell's HTTP response caches in
// the local SQLite database.
package shellcache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, cacheName, url string) (*models.ShellEntry, error) {
	var (
		e        = &models.ShellEntry{CacheName: cacheName, URL: url}
		storedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT status, header, body, stored_at FROM shell_cache WHERE cache_name = ? AND url = ?`,
		cacheName, url,
	).Scan(&e.Status, &e.Header, &e.Body, &storedAt)
	if dbx.IsNoRows(err) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached %s: %w", url, err)
	}
	if e.StoredAt, err = common.ParseTimestamp(storedAt); err != nil {
		return nil, fmt.Errorf("failed to parse cached %s timestamp: %w", url, err)
	}
	return e, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, e *models.ShellEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shell_cache (cache_name, url, status, header, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_name, url) DO UPDATE SET
			status = excluded.status,
			header = excluded.header,
			body = excluded.body,
			stored_at = excluded.stored_at
	`, e.CacheName, e.URL, e.Status, e.Header, e.Body, common.FormatTimestamp(e.StoredAt))
	if err != nil {
		return fmt.Errorf("failed to cache %s: %w", e.URL, err)
	}
	return nil
}

func (r *SQLiteRepository) CacheNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT cache_name FROM shell_cache ORDER BY cache_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan cache name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate caches: %w", err)
	}
	return names, nil
}

func (r *SQLiteRepository) DeleteCaches(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, n := range names {
			if _, err := tx.ExecContext(ctx, `DELETE FROM shell_cache WHERE cache_name = ?`, n); err != nil {
				return fmt.Errorf("failed to delete cache %s: %w", n, err)
			}
		}
		return nil
	})
}

var _ Repository = (*SQLiteRepository)(nil)
