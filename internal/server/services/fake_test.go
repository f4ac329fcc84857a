package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/dbx"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/dmitrijs2005/wardminutes/internal/server/repositories/documents"
)

// fakeDocs records the last call and returns canned results.
type fakeDocs struct {
	mu sync.Mutex

	stored   map[string]*models.Document
	upserted *models.Document
	merge    bool
	expected int64
	query    models.ListQuery
	deleted  []string
	err      error
}

func newFakeDocs() *fakeDocs { return &fakeDocs{stored: map[string]*models.Document{}} }

func (f *fakeDocs) Get(_ context.Context, collection, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.stored[collection+"/"+id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (f *fakeDocs) Upsert(_ context.Context, doc *models.Document, merge bool, expected int64) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *doc
	f.upserted, f.merge, f.expected = &cp, merge, expected
	cp.Version = expected + 1
	f.stored[doc.Collection+"/"+doc.ID] = &cp
	return &cp, nil
}

func (f *fakeDocs) List(_ context.Context, collection string, q models.ListQuery) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Document
	for _, d := range f.stored {
		if d.Collection == collection {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocs) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, collection+"/"+id)
	return f.err
}

type fakeRepoManager struct{ docs *fakeDocs }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository      { return m.docs }
