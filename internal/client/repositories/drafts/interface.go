package drafts

import (
	"context"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
)

// Repository is the local-only draft slot store. Drafts never leave the
// device.
type Repository interface {
	// Get returns (nil, nil) when the slot is empty.
	Get(ctx context.Context, key string) (*models.Draft, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]models.Draft, error)
}
