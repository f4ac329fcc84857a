// Package services contains the server's business logic: document storage
// rules, PIN authentication and backup upload links.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/records"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/dmitrijs2005/wardminutes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrInvalidDocument marks a request whose id or data cannot be stored.
var ErrInvalidDocument = errors.New("invalid document")

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func checkCollection(collection string) error {
	if _, err := records.ParseKind(collection); err != nil {
		return fmt.Errorf("%w: %q", common.ErrUnknownCollection, collection)
	}
	return nil
}

func (s *DocumentService) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	return s.repomanager.Documents(s.db).Get(ctx, collection, id)
}

// Set stores doc. An empty id creates a document under a new id; the
// stored document is returned with its server-side metadata.
func (s *DocumentService) Set(ctx context.Context, doc *models.Document, merge bool, expectedVersion int64) (*models.Document, error) {
	if err := checkCollection(doc.Collection); err != nil {
		return nil, err
	}
	if len(doc.Data) == 0 {
		doc.Data = json.RawMessage(`{}`)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc.Data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: data must be a JSON object", ErrInvalidDocument)
	}

	if doc.ID == "" {
		if expectedVersion > 0 {
			return nil, common.ErrVersionConflict
		}
		doc.ID = s.newID()
	}

	now := common.NormalizeTime(s.now())
	doc.UpdatedAt = now
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	} else {
		doc.CreatedAt = common.NormalizeTime(doc.CreatedAt)
	}
	if doc.UpdatedAt.Before(doc.CreatedAt) {
		doc.UpdatedAt = doc.CreatedAt
	}

	return s.repomanager.Documents(s.db).Upsert(ctx, doc, merge, expectedVersion)
}

func (s *DocumentService) List(ctx context.Context, collection string, q models.ListQuery) ([]*models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).List(ctx, collection, q)
}

func (s *DocumentService) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	return s.repomanager.Documents(s.db).Delete(ctx, collection, id)
}
