// Package netx moves attachment bytes to and from presigned object-store
// URLs. The URLs carry their own authorization, so no bearer token is sent.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const defaultContentType = "application/octet-stream"

// UploadToPresignedURL PUTs body to url. Any status other than 200 is an
// error that includes the response body.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url, contentType string, body io.Reader) error {
	if client == nil {
		client = http.DefaultClient
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// DownloadFromPresignedURL GETs url and copies the object into w, returning
// the number of bytes written.
func DownloadFromPresignedURL(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(w, resp.Body)
}
