package records

import (
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/common"
)

// Status is the editing state of a record. Empty means draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Date is an ISO calendar date, YYYY-MM-DD.
type Date string

// Time parses d. ok is false for empty or malformed dates.
func (d Date) Time() (t time.Time, ok bool) {
	if d == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(common.DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d Date) Valid() bool {
	_, ok := d.Time()
	return ok
}

// DateOf formats t as a Date in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(common.DateLayout))
}

// Meta is shared by every record variant.
type Meta struct {
	ID           string    `json:"id,omitempty"`
	Date         Date      `json:"date" validate:"omitempty,calendardate"`
	Status       Status    `json:"status" validate:"omitempty,oneof=draft completed archived"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	LastEditedBy string    `json:"lastEditedBy,omitempty"`
	LastEditedAt time.Time `json:"lastEditedAt,omitzero"`
	Version      int64     `json:"version,omitempty"`
}

func (m *Meta) GetMeta() *Meta { return m }

// CurrentStatus resolves the empty status to draft.
func (m *Meta) CurrentStatus() Status {
	if m.Status == "" {
		return StatusDraft
	}
	return m.Status
}

// Normalize brings every timestamp to UTC millisecond precision.
func (m *Meta) Normalize() {
	m.CreatedAt = common.NormalizeTime(m.CreatedAt)
	m.UpdatedAt = common.NormalizeTime(m.UpdatedAt)
	m.LastEditedAt = common.NormalizeTime(m.LastEditedAt)
}
