package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	localrecords "github.com/dmitrijs2005/wardminutes/internal/client/repositories/records"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

var ErrKindMismatch = errors.New("record kind mismatch")

// Collection is a kind-erased view of a RecordStore for callers that pick
// the kind at run time (the CLI, import/export).
type Collection interface {
	Kind() records.Kind
	Save(ctx context.Context, r records.Record) (SaveResult, error)
	GetAll(ctx context.Context) ([]records.Record, error)
	GetByID(ctx context.Context, id string) (records.Record, error)
	SearchByDate(ctx context.Context, date records.Date) ([]records.Record, error)
	SearchByDateRange(ctx context.Context, start, end records.Date) ([]records.Record, error)
	Delete(ctx context.Context, id string) error
}

type collection[R records.Record] struct {
	store *RecordStore[R]
}

// Collection returns the kind-erased view of s.
func (s *RecordStore[R]) Collection() Collection {
	return collection[R]{store: s}
}

func (c collection[R]) Kind() records.Kind { return c.store.kind }

func (c collection[R]) Save(ctx context.Context, r records.Record) (SaveResult, error) {
	typed, ok := r.(R)
	if !ok {
		return SaveResult{}, fmt.Errorf("%w: %s store got %s", ErrKindMismatch, c.store.kind, r.Kind())
	}
	return c.store.Save(ctx, typed)
}

func (c collection[R]) GetAll(ctx context.Context) ([]records.Record, error) {
	rs, err := c.store.GetAll(ctx)
	return erase(rs, err)
}

func (c collection[R]) GetByID(ctx context.Context, id string) (records.Record, error) {
	r, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c collection[R]) SearchByDate(ctx context.Context, date records.Date) ([]records.Record, error) {
	rs, err := c.store.SearchByDate(ctx, date)
	return erase(rs, err)
}

func (c collection[R]) SearchByDateRange(ctx context.Context, start, end records.Date) ([]records.Record, error) {
	rs, err := c.store.SearchByDateRange(ctx, start, end)
	return erase(rs, err)
}

func (c collection[R]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, id)
}

func erase[R records.Record](rs []R, err error) ([]records.Record, error) {
	if err != nil {
		return nil, err
	}
	out := make([]records.Record, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out, nil
}

// Stores holds one facade per record kind, all sharing the same remote
// client, local cache and options.
type Stores struct {
	Sacramental *RecordStore[*records.Sacramental]
	Baptismal   *RecordStore[*records.Baptismal]
	Bishopric   *RecordStore[*records.Bishopric]
	WardCouncil *RecordStore[*records.WardCouncil]
	Interviews  *RecordStore[*records.Interview]
}

func NewStores(remote client.Client, local localrecords.Repository, opts StoreOptions) *Stores {
	return &Stores{
		Sacramental: NewRecordStore[*records.Sacramental](remote, local, opts),
		Baptismal:   NewRecordStore[*records.Baptismal](remote, local, opts),
		Bishopric:   NewRecordStore[*records.Bishopric](remote, local, opts),
		WardCouncil: NewRecordStore[*records.WardCouncil](remote, local, opts),
		Interviews:  NewRecordStore[*records.Interview](remote, local, opts),
	}
}

// Collection looks up the store of kind k.
func (s *Stores) Collection(k records.Kind) (Collection, error) {
	switch k {
	case records.KindSacramental:
		return s.Sacramental.Collection(), nil
	case records.KindBaptismal:
		return s.Baptismal.Collection(), nil
	case records.KindBishopric:
		return s.Bishopric.Collection(), nil
	case records.KindWardCouncil:
		return s.WardCouncil.Collection(), nil
	case records.KindInterviews:
		return s.Interviews.Collection(), nil
	}
	return nil, fmt.Errorf("%w: %q", records.ErrUnknownKind, k)
}

// Collections returns every store in records.Kinds order.
func (s *Stores) Collections() []Collection {
	out := make([]Collection, 0, len(records.Kinds()))
	for _, k := range records.Kinds() {
		c, _ := s.Collection(k)
		out = append(out, c)
	}
	return out
}
