// Package documents provides the PostgreSQL-backed document repository of
// the server. Documents live in one JSONB table keyed by (collection, id).
package documents

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/dbx"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
)

// columns maps the query fields clients may order and filter by to SQL.
var columns = map[string]string{
	"date":      "data->>'date'",
	"status":    "data->>'status'",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// filters compare the column with the text parameter.
var filters = map[string]string{
	"date":      "data->>'date' = $2",
	"status":    "data->>'status' = $2",
	"createdAt": "created_at = $2::timestamptz",
	"updatedAt": "updated_at = $2::timestamptz",
}

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	d := &models.Document{Collection: collection, ID: id}
	row := r.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at, version FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	err := scanDocument(row, d)
	if dbx.IsNoRows(err) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

const upsertQuery = `
	INSERT INTO documents (collection, id, data, created_at, updated_at, version)
	VALUES ($1, $2, $3::jsonb, $4, $5, 1)
	ON CONFLICT (collection, id) DO UPDATE SET
		data = CASE WHEN $6::boolean THEN documents.data || excluded.data ELSE excluded.data END,
		updated_at = GREATEST(excluded.updated_at, documents.created_at),
		version = documents.version + 1
	RETURNING data, created_at, updated_at, version`

// A missing row never matches a CAS, so it is a plain UPDATE.
const casQuery = `
	UPDATE documents SET
		data = CASE WHEN $4::boolean THEN data || $3::jsonb ELSE $3::jsonb END,
		updated_at = GREATEST($5::timestamptz, created_at),
		version = version + 1
	WHERE collection = $1 AND id = $2 AND version = $6
	RETURNING data, created_at, updated_at, version`

// Upsert keeps created_at of an existing row and bumps its version.
// updated_at never falls behind the stored created_at.
func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error) {
	out := &models.Document{Collection: doc.Collection, ID: doc.ID}

	var row *sql.Row
	if expectedVersion > 0 {
		row = r.db.QueryRowContext(ctx, casQuery,
			doc.Collection, doc.ID, []byte(doc.Data), merge, doc.UpdatedAt, expectedVersion)
	} else {
		row = r.db.QueryRowContext(ctx, upsertQuery,
			doc.Collection, doc.ID, []byte(doc.Data), doc.CreatedAt, doc.UpdatedAt, merge)
	}
	err := scanDocument(row, out)
	if dbx.IsNoRows(err) {
		return nil, common.ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// List returns the documents of collection, filtered and ordered by q. Ties
// and unordered listings are broken by id.
func (r *PostgresRepository) List(ctx context.Context, collection string, q models.ListQuery) ([]*models.Document, error) {
	var (
		sb   strings.Builder
		args = []any{collection}
	)
	sb.WriteString(`SELECT id, data, created_at, updated_at, version FROM documents WHERE collection = $1`)

	if q.FilterField != "" {
		cond, ok := filters[q.FilterField]
		if !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedField, q.FilterField)
		}
		sb.WriteString(" AND " + cond)
		args = append(args, q.FilterValue)
	}

	if q.OrderBy != "" {
		col, ok := columns[q.OrderBy]
		if !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedField, q.OrderBy)
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		sb.WriteString(" ORDER BY " + col + " " + dir + ", id")
	} else {
		sb.WriteString(" ORDER BY id")
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var (
			d    = &models.Document{Collection: collection}
			data []byte
		)
		if err := rows.Scan(&d.ID, &data, &d.CreatedAt, &d.UpdatedAt, &d.Version); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Data = data
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return result, nil
}

// Delete is idempotent: removing a missing document is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// scanDocument reads the data, created_at, updated_at and version columns.
func scanDocument(row *sql.Row, d *models.Document) error {
	var data []byte
	if err := row.Scan(&data, &d.CreatedAt, &d.UpdatedAt, &d.Version); err != nil {
		return err
	}
	d.Data = data
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
