package proto

import "encoding/json"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type AuthenticateRequest struct {
	Pin string `json:"pin"`
}

type AuthenticateResponse struct {
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expiresAt"`
}

// Document is one stored JSON document. Timestamps are ISO-8601 strings in
// UTC with millisecond precision.
type Document struct {
	Collection string          `json:"collection"`
	Id         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
	Version    int64           `json:"version"`
}

func (d *Document) GetId() string {
	if d == nil {
		return ""
	}
	return d.Id
}

type GetDocumentRequest struct {
	Collection string `json:"collection"`
	Id         string `json:"id"`
}

type GetDocumentResponse struct {
	Document *Document `json:"document"`
}

func (r *GetDocumentResponse) GetDocument() *Document {
	if r == nil {
		return nil
	}
	return r.Document
}

type SetDocumentRequest struct {
	Document        *Document `json:"document"`
	Merge           bool      `json:"merge"`
	ExpectedVersion int64     `json:"expectedVersion"`
}

func (r *SetDocumentRequest) GetDocument() *Document {
	if r == nil {
		return nil
	}
	return r.Document
}

type SetDocumentResponse struct {
	Document *Document `json:"document"`
}

func (r *SetDocumentResponse) GetDocument() *Document {
	if r == nil {
		return nil
	}
	return r.Document
}

type ListDocumentsRequest struct {
	Collection  string `json:"collection"`
	OrderBy     string `json:"orderBy"`
	Descending  bool   `json:"descending"`
	FilterField string `json:"filterField"`
	FilterValue string `json:"filterValue"`
}

type ListDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type DeleteDocumentRequest struct {
	Collection string `json:"collection"`
	Id         string `json:"id"`
}

type DeleteDocumentResponse struct{}

type PresignBackupRequest struct{}

type PresignBackupResponse struct {
	Key string `json:"key"`
	Url string `json:"url"`
}
