package records

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/google/uuid"
)

// NewID builds a record id: <prefix>-<epoch-ms>-<6 hex chars>.
func NewID(k Kind, now time.Time) (string, error) {
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	suffix, err := common.MakeRandHexString(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", k.Prefix(), now.UnixMilli(), suffix), nil
}

// NewItemID returns an id for a sub-list item.
func NewItemID() string {
	return uuid.NewString()
}

type identified interface {
	itemID() *string
}

func (i *Speaker) itemID() *string                { return &i.ID }
func (i *SupportAndReleaseItem) itemID() *string  { return &i.ID }
func (i *CallingDesignationItem) itemID() *string { return &i.ID }
func (i *OrdinanceItem) itemID() *string          { return &i.ID }
func (i *ActionItem) itemID() *string             { return &i.ID }
func (i *InterviewItem) itemID() *string          { return &i.ID }

// fillItemIDs gives every item without an id, or with an id already used
// earlier in the list, a fresh one.
func fillItemIDs[T any, P interface {
	*T
	identified
}](items []T) {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		id := P(&items[i]).itemID()
		if _, dup := seen[*id]; *id == "" || dup {
			*id = NewItemID()
		}
		seen[*id] = struct{}{}
	}
}

// AssignItemIDs makes sub-list item ids present and unique within their list.
func AssignItemIDs(r Record) {
	switch v := r.(type) {
	case *Sacramental:
		fillItemIDs(v.Speakers)
		fillItemIDs(v.SupportAndRelease)
		fillItemIDs(v.Designations)
		fillItemIDs(v.Ordinances)
	case *Baptismal:
		fillItemIDs(v.Speakers)
		fillItemIDs(v.Ordinances)
	case *Bishopric:
		fillItemIDs(v.ActionItems)
	case *WardCouncil:
		fillItemIDs(v.ActionItems)
	case *Interview:
		fillItemIDs(v.Interviews)
	}
}
