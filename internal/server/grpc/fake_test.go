package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
	"github.com/dmitrijs2005/wardminutes/internal/server/auth"
	"github.com/dmitrijs2005/wardminutes/internal/server/models"
	"github.com/dmitrijs2005/wardminutes/internal/server/services"
)

const testSecret = "k"

// memDocs keeps documents in memory with the version rules of the real
// repository.
type memDocs struct {
	mu   sync.Mutex
	docs map[string]*models.Document
	err  error
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string]*models.Document{}} }

func (m *memDocs) Get(_ context.Context, collection, id string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[collection+"/"+id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDocs) Set(_ context.Context, doc *models.Document, _ bool, expected int64) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if doc.ID == "" {
		doc.ID = "srv-1"
	}
	key := doc.Collection + "/" + doc.ID
	cur, ok := m.docs[key]
	if expected > 0 && (!ok || cur.Version != expected) {
		return nil, common.ErrVersionConflict
	}
	cp := *doc
	cp.UpdatedAt = time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	cp.Version = 1
	if ok {
		cp.CreatedAt = cur.CreatedAt
		cp.Version = cur.Version + 1
	}
	m.docs[key] = &cp
	out := cp
	return &out, nil
}

func (m *memDocs) List(_ context.Context, collection string, _ models.ListQuery) ([]*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Document
	for _, d := range m.docs {
		if d.Collection == collection {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDocs) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.docs, collection+"/"+id)
	return nil
}

// pinAuth accepts 1234 as clerk and 5678 as bishopric. The first
// expireFirst tokens it issues are already expired.
type pinAuth struct {
	mu          sync.Mutex
	issued      int
	expireFirst int
}

func (a *pinAuth) Authenticate(_ context.Context, pin string) (*services.Token, error) {
	var role string
	switch pin {
	case "1234":
		role = auth.RoleClerk
	case "5678":
		role = auth.RoleBishopric
	default:
		return nil, common.ErrorUnauthorized
	}
	a.mu.Lock()
	validity := time.Hour
	if a.issued < a.expireFirst {
		validity = -time.Minute
	}
	a.issued++
	a.mu.Unlock()

	tok, exp, err := auth.GenerateToken(role, []byte(testSecret), validity)
	if err != nil {
		return nil, err
	}
	return &services.Token{AccessToken: tok, Role: role, ExpiresAt: exp}, nil
}

func (a *pinAuth) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issued
}

type stubBackups struct {
	key, url string
	err      error
}

func (b *stubBackups) PresignBackup(context.Context) (string, string, error) {
	return b.key, b.url, b.err
}

func newServer(docs documentSvc, as authSvc, bs backupSvc) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, docs, as, bs, testSecret)
}

func withRole(role string) context.Context {
	return context.WithValue(context.Background(), roleKey, role)
}
