package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	localrecords "github.com/dmitrijs2005/wardminutes/internal/client/repositories/records"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// StoreOptions configures a RecordStore.
type StoreOptions struct {
	// UseRemote enables the document store. When false every operation
	// goes straight to the local cache.
	UseRemote bool
	// RemoteTimeout bounds each remote call. Zero means no extra bound.
	RemoteTimeout time.Duration
	// Actor is stamped into the audit fields on save.
	Actor  string
	Logger logging.Logger
	Clock  func() time.Time
}

// SaveResult tells where a save landed.
type SaveResult struct {
	ID                string
	PersistedRemotely bool
}

// RecordStore is the synchronization facade for one record kind. Reads and
// writes prefer the remote document store and fall back to the local cache
// when it fails; successful remote reads and writes are mirrored locally.
type RecordStore[R records.Record] struct {
	kind   records.Kind
	remote client.Client
	local  localrecords.Repository
	opts   StoreOptions
	log    logging.Logger
}

func NewRecordStore[R records.Record](remote client.Client, local localrecords.Repository, opts StoreOptions) *RecordStore[R] {
	var zero R
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if remote == nil {
		opts.UseRemote = false
	}
	return &RecordStore[R]{
		kind:   zero.Kind(),
		remote: remote,
		local:  local,
		opts:   opts,
		log:    opts.Logger.With("kind", string(zero.Kind())),
	}
}

func (s *RecordStore[R]) Kind() records.Kind { return s.kind }

func (s *RecordStore[R]) New() R {
	r, _ := records.New(s.kind)
	return r.(R)
}

func (s *RecordStore[R]) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RemoteTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RemoteTimeout)
	}
	return context.WithCancel(ctx)
}

// Save assigns an id when needed, stamps the audit trail, derives computed
// fields and persists r. A remote failure other than a version conflict
// degrades to a local-only write; the result says which one happened.
func (s *RecordStore[R]) Save(ctx context.Context, r R) (SaveResult, error) {
	m := r.GetMeta()
	persisted := records.IsPersisted(s.kind, m.ID)
	known := m.ID != ""
	now := s.opts.Clock()

	if m.ID == "" {
		id, err := records.NewID(s.kind, now)
		if err != nil {
			return SaveResult{}, fmt.Errorf("unable to save %s record: %w", s.kind, err)
		}
		m.ID = id
	}

	records.Stamp(m, persisted, s.opts.Actor, now)
	records.AssignItemIDs(r)
	records.Derive(r)
	records.SyncDesignations(r)

	if s.opts.UseRemote {
		err := s.saveRemote(ctx, r)
		switch {
		case err == nil:
			if lerr := s.putLocal(ctx, r); lerr != nil {
				s.log.Warn(ctx, "local mirror failed", "id", m.ID, "error", lerr)
			}
			s.log.Debug(ctx, "saved remotely", "id", m.ID, "version", m.Version)
			return SaveResult{ID: m.ID, PersistedRemotely: true}, nil
		case errors.Is(err, common.ErrVersionConflict):
			return SaveResult{ID: m.ID}, fmt.Errorf("unable to save %s record %s: %w", s.kind, m.ID, err)
		case ctx.Err() != nil:
			return SaveResult{}, ctx.Err()
		default:
			s.log.Warn(ctx, "remote save failed, saving locally", "id", m.ID, "error", err)
		}
	}

	if known {
		s.keepLocalCreation(ctx, m)
	}
	if err := s.putLocal(ctx, r); err != nil {
		return SaveResult{}, fmt.Errorf("unable to save %s record: %w", s.kind, err)
	}
	s.log.Info(ctx, "saved locally", "id", m.ID)
	return SaveResult{ID: m.ID}, nil
}

// saveRemote creates the document when the store has none with this id and
// otherwise merge-updates it, keeping the stored createdAt and using the
// record's version as the compare-and-swap base.
func (s *RecordStore[R]) saveRemote(ctx context.Context, r R) error {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	m := r.GetMeta()
	merge := false
	var expected int64

	existing, err := s.remote.GetDocument(rctx, string(s.kind), m.ID)
	switch {
	case err == nil:
		merge = true
		expected = m.Version
		if !existing.CreatedAt.IsZero() {
			m.CreatedAt = common.NormalizeTime(existing.CreatedAt)
			if m.UpdatedAt.Before(m.CreatedAt) {
				m.UpdatedAt = m.CreatedAt
			}
		}
	case errors.Is(err, common.ErrorNotFound):
	default:
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.ID, err)
	}

	doc, err := s.remote.SetDocument(rctx, &models.Document{
		Collection: string(s.kind),
		ID:         m.ID,
		Data:       data,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		Version:    m.Version,
	}, merge, expected)
	if err != nil {
		return err
	}

	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, r); err != nil {
			return fmt.Errorf("decode stored %s: %w", m.ID, err)
		}
	}
	applyDocMeta(m, doc)
	records.Derive(r)
	return nil
}

// keepLocalCreation carries createdAt and createdBy of the cached copy of m
// over to m, as the remote path does with the stored document.
func (s *RecordStore[R]) keepLocalCreation(ctx context.Context, m *records.Meta) {
	row, err := s.local.Get(ctx, string(s.kind), m.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "reading cached copy failed", "id", m.ID, "error", err)
		}
		return
	}
	prev, err := s.fromCached(row)
	if err != nil {
		return
	}
	pm := prev.GetMeta()
	if !pm.CreatedAt.IsZero() {
		m.CreatedAt = pm.CreatedAt
	}
	if pm.CreatedBy != "" {
		m.CreatedBy = pm.CreatedBy
	}
	if m.UpdatedAt.Before(m.CreatedAt) {
		m.UpdatedAt = m.CreatedAt
	}
}

func applyDocMeta(m *records.Meta, doc *models.Document) {
	if doc.ID != "" {
		m.ID = doc.ID
	}
	if !doc.CreatedAt.IsZero() {
		m.CreatedAt = doc.CreatedAt
	}
	if !doc.UpdatedAt.IsZero() {
		m.UpdatedAt = doc.UpdatedAt
	}
	m.Version = doc.Version
	m.Normalize()
	if m.UpdatedAt.Before(m.CreatedAt) {
		m.UpdatedAt = m.CreatedAt
	}
}

func (s *RecordStore[R]) fromDoc(doc *models.Document) (R, error) {
	var zero R
	rec, err := records.Decode(s.kind, doc.Data)
	if err != nil {
		return zero, err
	}
	applyDocMeta(rec.GetMeta(), doc)
	return rec.(R), nil
}

func (s *RecordStore[R]) fromCached(row *models.CachedRecord) (R, error) {
	var zero R
	rec, err := records.Decode(s.kind, row.Payload)
	if err != nil {
		return zero, err
	}
	rec.GetMeta().Normalize()
	return rec.(R), nil
}

func (s *RecordStore[R]) putLocal(ctx context.Context, r R) error {
	m := r.GetMeta()
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.local.Put(ctx, &models.CachedRecord{
		Kind:      string(s.kind),
		ID:        m.ID,
		Date:      string(m.Date),
		Status:    string(m.CurrentStatus()),
		CreatedAt: common.FormatTimestamp(m.CreatedAt),
		UpdatedAt: common.FormatTimestamp(m.UpdatedAt),
		Payload:   payload,
	})
}

// mirror writes remote records to the local cache, ignoring failures.
func (s *RecordStore[R]) mirror(ctx context.Context, rs ...R) {
	for _, r := range rs {
		if err := s.putLocal(ctx, r); err != nil {
			s.log.Debug(ctx, "mirror failed", "id", r.GetMeta().ID, "error", err)
		}
	}
}

func (s *RecordStore[R]) listRemote(ctx context.Context, q models.Query) ([]R, error) {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	docs, err := s.remote.ListDocuments(rctx, string(s.kind), q)
	if err != nil {
		return nil, err
	}

	out := make([]R, 0, len(docs))
	for i := range docs {
		r, err := s.fromDoc(&docs[i])
		if err != nil {
			s.log.Warn(ctx, "skipping undecodable remote record", "id", docs[i].ID, "error", err)
			continue
		}
		out = append(out, r)
	}
	s.mirror(ctx, out...)
	return out, nil
}

func (s *RecordStore[R]) decodeRows(ctx context.Context, rows []models.CachedRecord) []R {
	out := make([]R, 0, len(rows))
	for i := range rows {
		r, err := s.fromCached(&rows[i])
		if err != nil {
			s.log.Warn(ctx, "skipping undecodable local record", "id", rows[i].ID, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// GetAll returns every record of the kind, newest meeting date first.
func (s *RecordStore[R]) GetAll(ctx context.Context) ([]R, error) {
	if s.opts.UseRemote {
		out, err := s.listRemote(ctx, models.Query{OrderBy: "date", Descending: true})
		if err == nil {
			sortByDateDesc(out)
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn(ctx, "remote list failed, reading local cache", "error", err)
	}

	rows, err := s.local.GetAll(ctx, string(s.kind))
	if err != nil {
		return nil, fmt.Errorf("unable to load %s records: %w", s.kind, err)
	}
	out := s.decodeRows(ctx, rows)
	sortByDateDesc(out)
	return out, nil
}

// GetByID returns common.ErrorNotFound when the id is absent from the store
// that answered: the remote one when reachable, the local cache otherwise.
func (s *RecordStore[R]) GetByID(ctx context.Context, id string) (R, error) {
	var zero R

	if s.opts.UseRemote {
		rctx, cancel := s.remoteCtx(ctx)
		doc, err := s.remote.GetDocument(rctx, string(s.kind), id)
		cancel()

		switch {
		case err == nil:
			r, derr := s.fromDoc(doc)
			if derr != nil {
				return zero, fmt.Errorf("unable to load %s record %s: %w", s.kind, id, derr)
			}
			s.mirror(ctx, r)
			return r, nil
		case errors.Is(err, common.ErrorNotFound):
			return zero, common.ErrorNotFound
		case ctx.Err() != nil:
			return zero, ctx.Err()
		default:
			s.log.Warn(ctx, "remote get failed, reading local cache", "id", id, "error", err)
		}
	}

	row, err := s.local.Get(ctx, string(s.kind), id)
	if errors.Is(err, common.ErrorNotFound) {
		return zero, common.ErrorNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("unable to load %s record %s: %w", s.kind, id, err)
	}
	r, err := s.fromCached(row)
	if err != nil {
		return zero, fmt.Errorf("unable to load %s record %s: %w", s.kind, id, err)
	}
	return r, nil
}

// SearchByDate returns the records of one meeting date, most recently
// created first, from whichever store answered.
func (s *RecordStore[R]) SearchByDate(ctx context.Context, date records.Date) ([]R, error) {
	if s.opts.UseRemote {
		out, err := s.listRemote(ctx, models.Query{
			OrderBy: "createdAt", Descending: true,
			FilterField: "date", FilterValue: string(date),
		})
		if err == nil {
			sortByCreatedDesc(out)
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn(ctx, "remote search failed, reading local cache", "date", string(date), "error", err)
	}

	rows, err := s.local.GetAllByIndex(ctx, string(s.kind), localrecords.IndexDate, string(date))
	if err != nil {
		return nil, fmt.Errorf("unable to search %s records: %w", s.kind, err)
	}
	out := s.decodeRows(ctx, rows)
	sortByCreatedDesc(out)
	return out, nil
}

// SearchByDateRange filters GetAll to start <= date <= end.
func (s *RecordStore[R]) SearchByDateRange(ctx context.Context, start, end records.Date) ([]R, error) {
	if !start.Valid() || !end.Valid() {
		return nil, fmt.Errorf("%w: %q..%q", ErrInvalidDateRange, start, end)
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]R, 0, len(all))
	for _, r := range all {
		d := r.GetMeta().Date
		if d.Valid() && d >= start && d <= end {
			out = append(out, r)
		}
	}
	return out, nil
}

// Delete removes the record from both stores. A remote failure is logged;
// the local delete runs regardless and its error is returned only when the
// remote delete did not succeed either.
func (s *RecordStore[R]) Delete(ctx context.Context, id string) error {
	remoteOK := false
	if s.opts.UseRemote {
		rctx, cancel := s.remoteCtx(ctx)
		err := s.remote.DeleteDocument(rctx, string(s.kind), id)
		cancel()
		if err != nil {
			s.log.Warn(ctx, "remote delete failed", "id", id, "error", err)
		} else {
			remoteOK = true
		}
	}

	if err := s.local.Delete(ctx, string(s.kind), id); err != nil {
		if remoteOK {
			s.log.Warn(ctx, "local delete failed", "id", id, "error", err)
			return nil
		}
		return fmt.Errorf("unable to delete %s record %s: %w", s.kind, id, err)
	}
	return nil
}

func sortByDateDesc[R records.Record](rs []R) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].GetMeta().Date > rs[j].GetMeta().Date
	})
}

func sortByCreatedDesc[R records.Record](rs []R) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].GetMeta().CreatedAt.After(rs[j].GetMeta().CreatedAt)
	})
}
