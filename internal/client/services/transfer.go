package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/netx"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

// ExportVersion is the format version written by Export.
const ExportVersion = 1

var (
	ErrMalformedImport = errors.New("malformed import file")
	ErrNoRemote        = errors.New("remote store not configured")
)

type exportFile struct {
	Version    int                          `json:"version"`
	ExportedAt time.Time                    `json:"exportedAt"`
	Records    map[string][]json.RawMessage `json:"records"`
}

// ImportFailure is one record that could not be imported.
type ImportFailure struct {
	Kind  records.Kind
	Index int
	ID    string
	Err   error
}

func (f ImportFailure) Error() string {
	if f.ID != "" {
		return fmt.Sprintf("%s[%d] %s: %v", f.Kind, f.Index, f.ID, f.Err)
	}
	return fmt.Sprintf("%s[%d]: %v", f.Kind, f.Index, f.Err)
}

// ImportReport summarizes an import. Records are saved one by one, so a
// report may list failures next to records that were kept.
type ImportReport struct {
	Saved         int
	SavedRemotely int
	Failures      []ImportFailure
}

// uploadFunc is a seam for tests.
type uploadFunc func(ctx context.Context, url string, body []byte, contentType string) error

// TransferService moves records in and out of the stores as JSON.
type TransferService struct {
	stores *Stores
	remote client.Client
	upload uploadFunc
	now    func() time.Time
}

func NewTransferService(stores *Stores, remote client.Client) *TransferService {
	return &TransferService{stores: stores, remote: remote, upload: netx.UploadToPresignedURL, now: time.Now}
}

// Export writes the records of the given kinds (all kinds when none are
// given) as one JSON document.
func (t *TransferService) Export(ctx context.Context, w io.Writer, kinds ...records.Kind) error {
	if len(kinds) == 0 {
		kinds = records.Kinds()
	}

	out := exportFile{Version: ExportVersion, ExportedAt: t.now().UTC().Truncate(time.Millisecond), Records: map[string][]json.RawMessage{}}
	for _, k := range kinds {
		coll, err := t.stores.Collection(k)
		if err != nil {
			return err
		}
		all, err := coll.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("export %s: %w", k, err)
		}
		list := make([]json.RawMessage, 0, len(all))
		for _, r := range all {
			b, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("export %s %s: %w", k, r.GetMeta().ID, err)
			}
			list = append(list, b)
		}
		out.Records[string(k)] = list
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Import reads a file written by Export and saves every record through the
// facade. A malformed file or an unknown kind fails before anything is
// saved; per-record failures are collected in the report and nothing is
// rolled back.
func (t *TransferService) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	var in exportFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return ImportReport{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if in.Version > ExportVersion {
		return ImportReport{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedImport, in.Version)
	}
	if in.Records == nil {
		return ImportReport{}, fmt.Errorf("%w: no records", ErrMalformedImport)
	}
	for name := range in.Records {
		if _, err := records.ParseKind(name); err != nil {
			return ImportReport{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
	}

	var rep ImportReport
	for _, k := range records.Kinds() {
		raws, ok := in.Records[string(k)]
		if !ok {
			continue
		}
		coll, err := t.stores.Collection(k)
		if err != nil {
			return rep, err
		}
		for i, raw := range raws {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			rec, err := records.Decode(k, raw)
			if err != nil {
				rep.Failures = append(rep.Failures, ImportFailure{Kind: k, Index: i, Err: err})
				continue
			}
			res, err := coll.Save(ctx, rec)
			if err != nil {
				rep.Failures = append(rep.Failures, ImportFailure{Kind: k, Index: i, ID: rec.GetMeta().ID, Err: err})
				continue
			}
			rep.Saved++
			if res.PersistedRemotely {
				rep.SavedRemotely++
			}
		}
	}
	return rep, nil
}

// Backup exports every record and uploads the file to a presigned object
// store URL obtained from the server. It returns the object key.
func (t *TransferService) Backup(ctx context.Context) (string, error) {
	if t.remote == nil {
		return "", ErrNoRemote
	}

	var buf bytes.Buffer
	if err := t.Export(ctx, &buf); err != nil {
		return "", err
	}

	key, url, err := t.remote.PresignBackup(ctx)
	if err != nil {
		return "", fmt.Errorf("presign backup: %w", err)
	}
	if err := t.upload(ctx, url, buf.Bytes(), netx.JSONContentType); err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}
	return key, nil
}
