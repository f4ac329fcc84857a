// Package models defines the rows the client keeps in its local SQLite
// database.
package models

import "time"

// CachedRecord is one record mirrored into (or written only to) the local
// cache. Date, Status and the timestamps are copied out of Payload so they
// can be indexed.
type CachedRecord struct {
	Kind      string
	ID        string
	Date      string
	Status    string
	CreatedAt string
	UpdatedAt string
	Payload   []byte
}

// Draft is a crash-recovery snapshot of an open form.
type Draft struct {
	Key     string
	Value   []byte
	SavedAt time.Time
}

// ShellEntry is a cached HTTP response of the offline shell.
type ShellEntry struct {
	CacheName string
	URL       string
	Status    int
	Header    []byte
	Body      []byte
	StoredAt  time.Time
}

// Document is a record as the remote document store holds it.
type Document struct {
	Collection string
	ID         string
	Data       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

// Query orders and filters a collection listing. Only date, status,
// createdAt and updatedAt are accepted by the server.
type Query struct {
	OrderBy     string
	Descending  bool
	FilterField string
	FilterValue string
}
