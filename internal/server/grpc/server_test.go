package grpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves s on a loopback port until the test ends and returns
// a connected client.
func startServer(t *testing.T, s *GRPCServer) *client.GRPCClient {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	c, err := client.NewDocumentStoreClient(lis.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEndToEnd_DocumentLifecycle(t *testing.T) {
	c := startServer(t, newServer(newMemDocs(), &pinAuth{}, &stubBackups{key: "backups/a.json", url: "http://s3/a"}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, c.Ping(ctx))

	_, err := c.GetDocument(ctx, "sacramental", "x")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	role, err := c.Authenticate(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "clerk", role)

	created := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	stored, err := c.SetDocument(ctx, &models.Document{
		Collection: "sacramental",
		ID:         "ata-1",
		Data:       json.RawMessage(`{"presidedBy":"Ana"}`),
		CreatedAt:  created,
	}, false, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, created, stored.CreatedAt)

	_, err = c.SetDocument(ctx, &models.Document{Collection: "sacramental", ID: "ata-1", Data: json.RawMessage(`{}`)}, true, 9)
	require.ErrorIs(t, err, common.ErrVersionConflict)

	got, err := c.GetDocument(ctx, "sacramental", "ata-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"presidedBy":"Ana"}`, string(got.Data))

	list, err := c.ListDocuments(ctx, "sacramental", models.Query{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.ListDocuments(ctx, "interviews", models.Query{})
	require.ErrorIs(t, err, client.ErrUnauthorized)

	require.NoError(t, c.DeleteDocument(ctx, "sacramental", "ata-1"))
	_, err = c.GetDocument(ctx, "sacramental", "ata-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	key, url, err := c.PresignBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backups/a.json", key)
	assert.Equal(t, "http://s3/a", url)
}

func TestEndToEnd_WrongPIN(t *testing.T) {
	c := startServer(t, newServer(newMemDocs(), &pinAuth{}, &stubBackups{}))

	_, err := c.Authenticate(context.Background(), "9999")
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestEndToEnd_ReauthenticatesOnExpiredToken(t *testing.T) {
	pins := &pinAuth{expireFirst: 1}
	c := startServer(t, newServer(newMemDocs(), pins, &stubBackups{}))
	ctx := context.Background()

	role, err := c.Authenticate(ctx, "5678")
	require.NoError(t, err)
	assert.Equal(t, "bishopric", role)

	_, err = c.ListDocuments(ctx, "interviews", models.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, pins.count())
}
