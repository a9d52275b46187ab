package target

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// BundleKind selects the install endpoint family for an extension bundle.
type BundleKind string

const (
	// BundlePlugin installs a plugin bundle.
	BundlePlugin BundleKind = "plugin"
	// BundleTheme installs a theme bundle.
	BundleTheme BundleKind = "theme"
)

// bundleEndpoints returns the ordered candidate URLs for a bundle kind:
// the namespaced REST path first, then the query-based fallback for
// targets with pretty permalinks disabled. Both require query credentials.
func (c *Client) bundleEndpoints(kind BundleKind) []string {
	route := "/storesync/v1/install-" + string(kind)
	return []string{
		c.creds.BaseURL + "/wp-json" + route + "?" + c.withQueryAuth(nil).Encode(),
		c.creds.BaseURL + "/?" + c.withQueryAuth(map[string][]string{"rest_route": {route}}).Encode(),
	}
}

// InstallBundle uploads a bundle's artifacts (any subset of manifest,
// options and archive) as one multipart payload, trying each candidate
// endpoint in order. A 404 from a candidate means "try the next one";
// any other non-success is terminal for this bundle.
func (c *Client) InstallBundle(ctx context.Context, kind BundleKind, files map[string]string) error {
	if len(files) == 0 {
		return fmt.Errorf("target: bundle has no artifacts")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("target: read bundle artifact: %w", err)
		}
		part, err := writer.CreateFormFile(field, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("target: build bundle upload: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return fmt.Errorf("target: build bundle upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("target: build bundle upload: %w", err)
	}
	body := buf.Bytes()
	contentType := writer.FormDataContentType()

	for _, endpoint := range c.bundleEndpoints(kind) {
		rawURL := endpoint
		build := func() (*http.Request, error) {
			req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", contentType)
			req.SetBasicAuth(c.creds.ConsumerKey, c.creds.ConsumerSecret)
			return req, nil
		}

		resp, err := c.sender.Send(ctx, build, c.logRetry)
		if err != nil {
			return err
		}
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		_ = resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("target: read bundle response: %w", readErr)
		}
		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusNotFound:
			continue
		default:
			return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
		}
	}
	return ErrNoUploadEndpoint
}
