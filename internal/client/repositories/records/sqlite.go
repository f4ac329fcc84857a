// Package records is the SQLite implementation of the local record cache.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/dbx"
)

var ErrUnknownIndex = errors.New("unknown index")

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `SELECT kind, id, date, status, created_at, updated_at, payload FROM records`

func (r *SQLiteRepository) Get(ctx context.Context, kind, id string) (*models.CachedRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE kind = ? AND id = ?`, kind, id)

	rec := &models.CachedRecord{}
	err := row.Scan(&rec.Kind, &rec.ID, &rec.Date, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.Payload)
	if dbx.IsNoRows(err) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s/%s: %w", kind, id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, kind string) ([]models.CachedRecord, error) {
	return r.query(ctx, selectColumns+` WHERE kind = ? ORDER BY id`, kind)
}

func (r *SQLiteRepository) GetAllByIndex(ctx context.Context, kind string, index Index, value string) ([]models.CachedRecord, error) {
	var query string
	switch index {
	case IndexDate:
		query = selectColumns + ` WHERE kind = ? AND date = ? ORDER BY id`
	case IndexStatus:
		query = selectColumns + ` WHERE kind = ? AND status = ? ORDER BY id`
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndex, index)
	}
	return r.query(ctx, query, kind, value)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.CachedRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := []models.CachedRecord{}
	for rows.Next() {
		var rec models.CachedRecord
		if err := rows.Scan(&rec.Kind, &rec.ID, &rec.Date, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, rec *models.CachedRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("failed to put %s record: empty id", rec.Kind)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (kind, id, date, status, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			date = excluded.date,
			status = excluded.status,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			payload = excluded.payload
	`, rec.Kind, rec.ID, rec.Date, rec.Status, rec.CreatedAt, rec.UpdatedAt, rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to put record %s/%s: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, kind, id); err != nil {
		return fmt.Errorf("failed to delete record %s/%s: %w", kind, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, kind string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("failed to clear %s records: %w", kind, err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
