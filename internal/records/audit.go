package records

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
)

// IsPersisted reports whether id was assigned by a previous save of kind k.
func IsPersisted(k Kind, id string) bool {
	return k.Valid() && strings.HasPrefix(id, k.Prefix()+"-")
}

// Stamp applies the audit trail for a save by actor at now. createdBy is
// only written for records that were never persisted, createdAt only when
// unset. The edit fields and updatedAt are always refreshed, and updatedAt
// never precedes createdAt.
func Stamp(m *Meta, persisted bool, actor string, now time.Time) {
	now = common.NormalizeTime(now)
	m.Normalize()

	if !persisted {
		m.CreatedBy = actor
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.LastEditedBy = actor
	m.LastEditedAt = now
	m.UpdatedAt = now
	if m.UpdatedAt.Before(m.CreatedAt) {
		m.UpdatedAt = m.CreatedAt
	}
}
