package documents

import (
	"context"

	"github.com/dmitrijs2005/wardminutes/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	// Upsert writes doc and returns the stored row. With merge the top-level
	// fields of doc.Data are laid over the stored ones. expectedVersion > 0
	// requires the stored version to match, else common.ErrVersionConflict.
	Upsert(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error)
	List(ctx context.Context, collection string, q models.ListQuery) ([]*models.Document, error)
	Delete(ctx context.Context, collection, id string) error
}
