// Package records holds the meeting-minutes record model and the pure
// lifecycle rules applied to it: meeting-type derivation, validation, audit
// stamping, designation mirroring and form-style field edits.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names a record variant. It doubles as the remote collection name.
type Kind string

const (
	KindSacramental Kind = "sacramental"
	KindBaptismal   Kind = "baptismal"
	KindBishopric   Kind = "bishopric"
	KindWardCouncil Kind = "ward_council"
	KindInterviews  Kind = "interviews"
)

var ErrUnknownKind = errors.New("unknown record kind")

var prefixes = map[Kind]string{
	KindSacramental: "ata",
	KindBaptismal:   "baptism",
	KindBishopric:   "bishopric",
	KindWardCouncil: "council",
	KindInterviews:  "interview",
}

// Kinds lists every kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindSacramental, KindBaptismal, KindBishopric, KindWardCouncil, KindInterviews}
}

// ParseKind accepts the collection name of a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	_, ok := prefixes[k]
	return ok
}

// Prefix is the id prefix of records of this kind.
func (k Kind) Prefix() string {
	return prefixes[k]
}

func (k Kind) String() string { return string(k) }

// Record is implemented by the pointer types of every variant.
type Record interface {
	Kind() Kind
	GetMeta() *Meta
}

// New returns an empty record of the given kind.
func New(k Kind) (Record, error) {
	switch k {
	case KindSacramental:
		return &Sacramental{}, nil
	case KindBaptismal:
		return &Baptismal{}, nil
	case KindBishopric:
		return &Bishopric{}, nil
	case KindWardCouncil:
		return &WardCouncil{}, nil
	case KindInterviews:
		return &Interview{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
}

// Decode unmarshals a JSON document into a fresh record of kind k and
// re-derives its computed fields.
func Decode(k Kind, data []byte) (Record, error) {
	r, err := New(k)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", k, err)
	}
	Derive(r)
	return r, nil
}
