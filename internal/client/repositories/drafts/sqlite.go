// Package drafts stores auto-saved form snapshots in the local SQLite
// database, one slot per key.
package drafts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.Draft, error) {
	var (
		value   []byte
		savedAt string
	)
	err := r.db.QueryRowContext(ctx, `SELECT value, saved_at FROM drafts WHERE key = ?`, key).Scan(&value, &savedAt)
	if dbx.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft[%s]: %w", key, err)
	}

	ts, err := common.ParseTimestamp(savedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse draft[%s] timestamp: %w", key, err)
	}
	return &models.Draft{Key: key, Value: value, SavedAt: ts}, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (key, value, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at
	`, key, value, common.FormatTimestamp(r.now()))
	if err != nil {
		return fmt.Errorf("failed to set draft[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, saved_at FROM drafts ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	result := []models.Draft{}
	for rows.Next() {
		var (
			d       models.Draft
			savedAt string
		)
		if err := rows.Scan(&d.Key, &d.Value, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		if d.SavedAt, err = common.ParseTimestamp(savedAt); err != nil {
			return nil, fmt.Errorf("failed to parse draft[%s] timestamp: %w", d.Key, err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}
	return result, nil
}

var _ Repository = (*SQLiteRepository)(nil)
