// Package upload provides the adapter for the external blob-upload service.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AllowedTypes is the MIME allow-list for resume files. Enforcement is the
// intake flow's responsibility, not the adapter's.
var AllowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadError represents a failed upload. The service's own error message is
// surfaced verbatim when it provides one.
type UploadError struct {
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upload failed: %s", e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// Adapter transfers file bytes to the external upload service.
type Adapter struct {
	url    string
	client *http.Client
}

// NewAdapter creates an upload adapter for the given endpoint URL.
func NewAdapter(url string) *Adapter {
	return &Adapter{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// uploadResponse is the upload service's response body.
type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Upload transfers the file bytes and returns the durable URL. No retry, and
// no idempotency: uploading the same file twice produces two stored objects.
func (a *Adapter) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, body)
	if err != nil {
		return "", &UploadError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &UploadError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The service reports failures as {error}; surface its own message
		// when the body carries one.
		var failure uploadResponse
		if err := json.Unmarshal(respBody, &failure); err == nil && failure.Error != "" {
			return "", &UploadError{Message: failure.Error}
		}
		return "", &UploadError{Message: fmt.Sprintf("service returned status %d", resp.StatusCode)}
	}

	var result uploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &UploadError{Message: "failed to decode response", Cause: err}
	}

	if result.Error != "" {
		return "", &UploadError{Message: result.Error}
	}
	if result.URL == "" {
		return "", &UploadError{Message: "response missing url"}
	}

	return result.URL, nil
}
