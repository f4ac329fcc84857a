package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory document store with per-operation failure
// switches.
type fakeRemote struct {
	mu   sync.Mutex
	docs map[string]map[string]models.Document
	now  func() time.Time

	getErr, setErr, listErr, deleteErr error
	// block makes every document call wait for its context.
	block bool

	setCalls   int
	presignKey string
	presignURL string
	presignErr error
}

var _ client.Client = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs: map[string]map[string]models.Document{},
		now:  time.Now,
	}
}

func (f *fakeRemote) wait(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeRemote) Close() error                   { return nil }
func (f *fakeRemote) Ping(ctx context.Context) error { return f.wait(ctx) }

func (f *fakeRemote) Authenticate(_ context.Context, pin string) (string, error) {
	switch pin {
	case "1234":
		return "clerk", nil
	case "5678":
		return "bishopric", nil
	}
	return "", client.ErrUnauthorized
}

func (f *fakeRemote) GetDocument(ctx context.Context, collection, id string) (*models.Document, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[collection][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (f *fakeRemote) SetDocument(ctx context.Context, doc *models.Document, merge bool, expected int64) (*models.Document, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return nil, f.setErr
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	coll := f.docs[doc.Collection]
	if coll == nil {
		coll = map[string]models.Document{}
		f.docs[doc.Collection] = coll
	}
	existing, ok := coll[id]
	if expected != 0 && (!ok || existing.Version != expected) {
		return nil, common.ErrVersionConflict
	}

	data := doc.Data
	if merge && ok {
		var base, patch map[string]json.RawMessage
		if err := json.Unmarshal(existing.Data, &base); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(doc.Data, &patch); err != nil {
			return nil, err
		}
		for k, v := range patch {
			base[k] = v
		}
		b, err := json.Marshal(base)
		if err != nil {
			return nil, err
		}
		data = b
	}

	stored := models.Document{
		Collection: doc.Collection,
		ID:         id,
		Data:       data,
		CreatedAt:  common.NormalizeTime(doc.CreatedAt),
		UpdatedAt:  common.NormalizeTime(doc.UpdatedAt),
		Version:    1,
	}
	if ok {
		stored.CreatedAt = existing.CreatedAt
		stored.Version = existing.Version + 1
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = common.NormalizeTime(f.now())
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	coll[id] = stored
	return &stored, nil
}

func (f *fakeRemote) ListDocuments(ctx context.Context, collection string, q models.Query) ([]models.Document, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Document
	for _, d := range f.docs[collection] {
		if q.FilterField != "" {
			var fields map[string]any
			if err := json.Unmarshal(d.Data, &fields); err != nil {
				return nil, err
			}
			if v, _ := fields[q.FilterField].(string); v != q.FilterValue {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRemote) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.docs[collection], id)
	return nil
}

func (f *fakeRemote) PresignBackup(ctx context.Context) (string, string, error) {
	if err := f.wait(ctx); err != nil {
		return "", "", err
	}
	return f.presignKey, f.presignURL, f.presignErr
}

func (f *fakeRemote) doc(collection, id string) (models.Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[collection][id]
	return d, ok
}

func (f *fakeRemote) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[collection])
}

func openRepos(t *testing.T) *client.Repositories {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "wardminutes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return client.NewRepositories(db)
}

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}

var testEpoch = time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
