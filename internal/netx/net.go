// Package netx contains small HTTP helpers shared by the client commands.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// JSONContentType is sent with backup uploads.
const JSONContentType = "application/json"

// HTTPClient is used for uploads; tests may replace it.
var HTTPClient = &http.Client{}

// UploadToPresignedURL PUTs body to a presigned object-store URL. Any status
// other than 200 is an error carrying the response body.
func UploadToPresignedURL(ctx context.Context, url string, body []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
