package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 3, 10, 0, 0, 123456789, time.UTC)

func newDocService(docs *fakeDocs) *DocumentService {
	s := NewDocumentService(nil, &fakeRepoManager{docs: docs})
	s.now = func() time.Time { return testNow }
	s.newID = func() string { return "generated-id" }
	return s
}

func TestDocumentService_SetCreatesWithServerID(t *testing.T) {
	docs := newFakeDocs()
	s := newDocService(docs)

	out, err := s.Set(context.Background(), &models.Document{
		Collection: "sacramental",
		Data:       json.RawMessage(`{"presidedBy":"Ana"}`),
	}, false, 0)
	require.NoError(t, err)

	assert.Equal(t, "generated-id", out.ID)
	want := testNow.Truncate(time.Millisecond)
	assert.Equal(t, want, docs.upserted.CreatedAt)
	assert.Equal(t, want, docs.upserted.UpdatedAt)
	assert.False(t, docs.merge)
}

func TestDocumentService_SetKeepsClientIDAndCreatedAt(t *testing.T) {
	docs := newFakeDocs()
	s := newDocService(docs)
	created := time.Date(2024, 1, 7, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	_, err := s.Set(context.Background(), &models.Document{
		Collection: "baptismal",
		ID:         "bat-1",
		Data:       json.RawMessage(`{"status":"draft"}`),
		CreatedAt:  created,
	}, true, 3)
	require.NoError(t, err)

	assert.Equal(t, "bat-1", docs.upserted.ID)
	assert.Equal(t, created.UTC(), docs.upserted.CreatedAt)
	assert.True(t, docs.merge)
	assert.Equal(t, int64(3), docs.expected)
}

func TestDocumentService_SetNeverUpdatesBeforeCreation(t *testing.T) {
	docs := newFakeDocs()
	s := newDocService(docs)
	ahead := testNow.Add(5 * time.Minute)

	out, err := s.Set(context.Background(), &models.Document{
		Collection: "sacramental",
		ID:         "ata-1",
		Data:       json.RawMessage(`{}`),
		CreatedAt:  ahead,
	}, false, 0)
	require.NoError(t, err)

	want := ahead.Truncate(time.Millisecond)
	assert.Equal(t, want, out.CreatedAt)
	assert.Equal(t, want, out.UpdatedAt)
	assert.False(t, out.UpdatedAt.Before(out.CreatedAt))
}

func TestDocumentService_SetRejects(t *testing.T) {
	s := newDocService(newFakeDocs())
	ctx := context.Background()

	_, err := s.Set(ctx, &models.Document{Collection: "choir", Data: json.RawMessage(`{}`)}, false, 0)
	require.ErrorIs(t, err, common.ErrUnknownCollection)

	_, err = s.Set(ctx, &models.Document{Collection: "sacramental", Data: json.RawMessage(`[1,2]`)}, false, 0)
	require.ErrorIs(t, err, ErrInvalidDocument)

	_, err = s.Set(ctx, &models.Document{Collection: "sacramental", Data: json.RawMessage(`null`)}, false, 0)
	require.ErrorIs(t, err, ErrInvalidDocument)

	_, err = s.Set(ctx, &models.Document{Collection: "sacramental", Data: json.RawMessage(`{}`)}, false, 2)
	require.ErrorIs(t, err, common.ErrVersionConflict)
}

func TestDocumentService_SetEmptyDataIsEmptyObject(t *testing.T) {
	docs := newFakeDocs()
	s := newDocService(docs)

	_, err := s.Set(context.Background(), &models.Document{Collection: "interviews", ID: "ent-1"}, true, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(docs.upserted.Data))
}

func TestDocumentService_GetListDelete(t *testing.T) {
	docs := newFakeDocs()
	s := newDocService(docs)
	ctx := context.Background()

	_, err := s.Get(ctx, "sacramental", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Get(ctx, "sacramental", "")
	require.ErrorIs(t, err, ErrInvalidDocument)
	_, err = s.Get(ctx, "nope", "x")
	require.ErrorIs(t, err, common.ErrUnknownCollection)

	_, err = s.Set(ctx, &models.Document{Collection: "sacramental", ID: "ata-1", Data: json.RawMessage(`{}`)}, false, 0)
	require.NoError(t, err)
	got, err := s.Get(ctx, "sacramental", "ata-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)

	q := models.ListQuery{OrderBy: "date", Descending: true}
	list, err := s.List(ctx, "sacramental", q)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, q, docs.query)
	_, err = s.List(ctx, "nope", q)
	require.ErrorIs(t, err, common.ErrUnknownCollection)

	require.NoError(t, s.Delete(ctx, "sacramental", "ata-1"))
	assert.Equal(t, []string{"sacramental/ata-1"}, docs.deleted)
	require.ErrorIs(t, s.Delete(ctx, "sacramental", ""), ErrInvalidDocument)
}

func TestDocumentService_RepositoryErrorsPassThrough(t *testing.T) {
	docs := newFakeDocs()
	docs.err = errors.New("db is down")
	s := newDocService(docs)

	_, err := s.Set(context.Background(), &models.Document{Collection: "sacramental", ID: "a", Data: json.RawMessage(`{}`)}, false, 0)
	require.EqualError(t, err, "db is down")
}
