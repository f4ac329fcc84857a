package records

import (
	"context"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
)

// Index names a secondary index of the local cache.
type Index string

const (
	IndexDate   Index = "date"
	IndexStatus Index = "status"
)

// Repository is the local cache store: records keyed by (kind, id) with
// secondary indexes on date and status. It holds no business logic.
type Repository interface {
	// Get returns common.ErrorNotFound when the record is absent.
	Get(ctx context.Context, kind, id string) (*models.CachedRecord, error)
	GetAll(ctx context.Context, kind string) ([]models.CachedRecord, error)
	GetAllByIndex(ctx context.Context, kind string, index Index, value string) ([]models.CachedRecord, error)

	// Put inserts or replaces the record.
	Put(ctx context.Context, rec *models.CachedRecord) error

	// Delete succeeds when the record is already absent.
	Delete(ctx context.Context, kind, id string) error
	Clear(ctx context.Context, kind string) error
}
