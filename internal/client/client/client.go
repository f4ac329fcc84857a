package client

import (
	"context"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
)

// Client is the remote document store as the client sees it. It does no
// fallback of its own.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// Authenticate exchanges a PIN for an access token and returns the role.
	Authenticate(ctx context.Context, pin string) (string, error)

	// GetDocument returns common.ErrorNotFound when the document is absent.
	GetDocument(ctx context.Context, collection, id string) (*models.Document, error)
	// SetDocument creates (empty ID: server-generated), replaces or, with
	// merge, updates the present top-level fields of a document. A non-zero
	// expectedVersion must match the stored version or common.ErrVersionConflict
	// is returned.
	SetDocument(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error)
	ListDocuments(ctx context.Context, collection string, q models.Query) ([]models.Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error

	PresignBackup(ctx context.Context) (key string, url string, err error)
}
