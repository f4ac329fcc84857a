package models

import (
	"encoding/json"
	"time"
)

// Document is one row of the documents table. Data is a JSON object.
type Document struct {
	Collection string          `db:"collection"`
	ID         string          `db:"id"`
	Data       json.RawMessage `db:"data"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	Version    int64           `db:"version"`
}

// ListQuery narrows and orders a collection listing. Empty fields mean no
// filter and storage order.
type ListQuery struct {
	OrderBy     string
	Descending  bool
	FilterField string
	FilterValue string
}
