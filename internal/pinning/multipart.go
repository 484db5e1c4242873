package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// postFile sends data as the "file" field of a multipart form and decodes a JSON response into out.
func postFile(ctx context.Context, client *http.Client, provider, endpoint, bearer string, data []byte, filename string, extra map[string]string, out any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("pinning: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("pinning: build form: %w", err)
	}
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("pinning: build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("pinning: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("pinning: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &UploadError{Provider: provider, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UploadError{Provider: provider, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &UploadError{Provider: provider, Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UploadError{Provider: provider, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}
