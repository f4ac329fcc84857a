package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

// DefaultAutosaveInterval is used when Run gets a non-positive interval.
const DefaultAutosaveInterval = 60 * time.Second

var ErrNoDraft = errors.New("no draft to recover")

// DraftKey is the draft slot of a kind.
func DraftKey(k records.Kind) string {
	return "draft:" + string(k)
}

// FormSession is one open form: an in-memory record being edited, its
// crash-recovery draft slot and the facade it is saved through.
type FormSession struct {
	coll   Collection
	drafts drafts.Repository
	log    logging.Logger

	mu    sync.Mutex
	rec   records.Record
	dirty bool
	edits uint64
}

func newSession(coll Collection, dr drafts.Repository, rec records.Record, dirty bool, log logging.Logger) *FormSession {
	if log == nil {
		log = logging.Nop{}
	}
	return &FormSession{coll: coll, drafts: dr, rec: rec, dirty: dirty, log: log.With("kind", string(coll.Kind()))}
}

// NewForm opens a blank form of the collection's kind.
func NewForm(coll Collection, dr drafts.Repository, log logging.Logger) *FormSession {
	rec, _ := records.New(coll.Kind())
	return newSession(coll, dr, rec, false, log)
}

// OpenForm loads a persisted record for editing.
func OpenForm(ctx context.Context, coll Collection, dr drafts.Repository, id string, log logging.Logger) (*FormSession, error) {
	rec, err := coll.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newSession(coll, dr, rec, false, log), nil
}

// RecoverDraft reopens the form snapshot left in the kind's draft slot.
func RecoverDraft(ctx context.Context, coll Collection, dr drafts.Repository, log logging.Logger) (*FormSession, error) {
	d, err := dr.Get(ctx, DraftKey(coll.Kind()))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNoDraft
	}
	rec, err := records.Decode(coll.Kind(), d.Value)
	if err != nil {
		return nil, fmt.Errorf("corrupt draft: %w", err)
	}
	return newSession(coll, dr, rec, true, log), nil
}

func clone(r records.Record) (records.Record, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return records.Decode(r.Kind(), b)
}

// Record returns a copy of the record being edited.
func (f *FormSession) Record() records.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, err := clone(f.rec)
	if err != nil {
		return f.rec
	}
	return c
}

func (f *FormSession) Kind() records.Kind { return f.coll.Kind() }

func (f *FormSession) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Edit applies fn to the record under the session lock and marks the form
// dirty when fn succeeds.
func (f *FormSession) Edit(fn func(r records.Record) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := fn(f.rec); err != nil {
		return err
	}
	records.Derive(f.rec)
	f.dirty = true
	f.edits++
	return nil
}

func (f *FormSession) Set(path, value string) error {
	return f.Edit(func(r records.Record) error { return records.SetField(r, path, value) })
}

func (f *FormSession) Add(list, value string) (string, error) {
	var id string
	err := f.Edit(func(r records.Record) error {
		var err error
		id, err = records.AppendItem(r, list, value)
		if err == nil {
			records.SyncDesignations(r)
		}
		return err
	})
	return id, err
}

func (f *FormSession) Remove(list, key string) error {
	return f.Edit(func(r records.Record) error {
		if err := records.RemoveItem(r, list, key); err != nil {
			return err
		}
		records.SyncDesignations(r)
		return nil
	})
}

func (f *FormSession) Validate() records.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return records.Validate(f.rec)
}

// Autosave writes a snapshot to the draft slot when the form is dirty and
// has content. The snapshot is taken under the lock and written outside it,
// so a concurrent Save may race; the last draft write wins.
func (f *FormSession) Autosave(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if !f.dirty || !records.HasContent(f.rec) {
		f.mu.Unlock()
		return false, nil
	}
	snapshot, err := json.Marshal(f.rec)
	f.mu.Unlock()
	if err != nil {
		return false, err
	}

	if err := f.drafts.Set(ctx, DraftKey(f.Kind()), snapshot); err != nil {
		return false, err
	}
	return true, nil
}

// Run auto-saves every interval until ctx is done.
func (f *FormSession) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			saved, err := f.Autosave(ctx)
			if err != nil {
				f.log.Warn(ctx, "autosave failed", "error", err)
				continue
			}
			if saved {
				f.log.Debug(ctx, "draft autosaved")
			}
		}
	}
}

// Save validates the record, marks it completed and persists it through the
// facade. Field errors block the save and come back as
// *records.ValidationError. On success the draft slot is cleared.
func (f *FormSession) Save(ctx context.Context) (SaveResult, error) {
	f.mu.Lock()
	if err := records.Validate(f.rec).Err(); err != nil {
		f.mu.Unlock()
		return SaveResult{}, err
	}
	work, err := clone(f.rec)
	base := f.edits
	f.mu.Unlock()
	if err != nil {
		return SaveResult{}, err
	}

	work.GetMeta().Status = records.StatusCompleted

	res, err := f.coll.Save(ctx, work)
	if err != nil {
		return res, err
	}

	// Edits made while the save was in flight stay in the form; only the
	// store's identity and audit fields are taken over.
	f.mu.Lock()
	edited := f.edits != base
	if edited {
		adoptSaved(f.rec.GetMeta(), work.GetMeta())
	} else {
		f.rec = work
		f.dirty = false
	}
	f.mu.Unlock()
	if edited {
		return res, nil
	}

	if err := f.drafts.Delete(ctx, DraftKey(f.Kind())); err != nil {
		f.log.Warn(ctx, "clearing draft failed", "error", err)
	}
	return res, nil
}

func adoptSaved(dst, saved *records.Meta) {
	dst.ID = saved.ID
	dst.CreatedAt = saved.CreatedAt
	dst.CreatedBy = saved.CreatedBy
	dst.UpdatedAt = saved.UpdatedAt
	dst.LastEditedBy = saved.LastEditedBy
	dst.LastEditedAt = saved.LastEditedAt
	dst.Version = saved.Version
}

// Discard drops unsaved changes from the draft slot.
func (f *FormSession) Discard(ctx context.Context) error {
	f.mu.Lock()
	f.dirty = false
	f.mu.Unlock()
	return f.drafts.Delete(ctx, DraftKey(f.Kind()))
}
