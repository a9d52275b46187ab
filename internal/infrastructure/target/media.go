package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// UploadMedia uploads a local image file to the target media library.
// The media endpoint requires the credentials as query parameters in
// addition to Basic auth.
func (c *Client) UploadMedia(ctx context.Context, path string) (*Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("target: read media file: %w", err)
	}
	filename := filepath.Base(path)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if mimeType := mime.TypeByExtension(filepath.Ext(filename)); mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("target: build media upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("target: build media upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("target: build media upload: %w", err)
	}
	body := buf.Bytes()
	contentType := writer.FormDataContentType()

	rawURL := c.creds.BaseURL + "/wp-json/wp/v2/media?" + c.withQueryAuth(nil).Encode()
	build := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.creds.ConsumerKey, c.creds.ConsumerSecret)
		return req, nil
	}

	resp, err := c.sender.Send(ctx, build, c.logRetry)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("target: read media response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	}
	var media Media
	if err := json.Unmarshal(respBody, &media); err != nil {
		return nil, fmt.Errorf("target: decode media response: %w", err)
	}
	return &media, nil
}
