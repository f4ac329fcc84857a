package shellcache

import (
	"context"

	"github.com/dmitrijs2005/wardminutes/internal/client/models"
)

// Repository stores responses of the offline shell grouped by cache name.
type Repository interface {
	// Get returns common.ErrorNotFound when url is not cached under cacheName.
	Get(ctx context.Context, cacheName, url string) (*models.ShellEntry, error)
	Put(ctx context.Context, e *models.ShellEntry) error
	CacheNames(ctx context.Context) ([]string, error)
	// DeleteCaches drops every entry of the named caches in one transaction.
	DeleteCaches(ctx context.Context, names []string) error
}
