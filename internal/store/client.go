package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// Endpoint paths under the persistence API base URL. All operations are
// single POST request/response calls with no retry.
const (
	pathCreateResume = "/create-resume"
	pathGetResumes   = "/get-resumes"
	pathGetByID      = "/get-resume-by-id"
	pathUpdateStatus = "/update-resume-status"
	pathChatHistory  = "/get-chat-history"
	pathSendMessage  = "/send-chat-message"
	pathParseResume  = "/parse-resume"
)

// Client issues requests against the resume persistence API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a persistence API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Create stores a new resume record. The caller must not assume the record
// exists on failure.
func (c *Client) Create(ctx context.Context, req CreateResumeRequest) (*Resume, error) {
	if req.Status == "" {
		req.Status = StatusPending
	}

	var out struct {
		Resume *Resume `json:"resume"`
	}
	if err := c.post(ctx, "create", pathCreateResume, req, &out); err != nil {
		return nil, err
	}
	if out.Resume == nil {
		return nil, &StoreError{Op: "create", Message: "response missing resume"}
	}
	return out.Resume, nil
}

// List returns all resume records. Returns an empty slice, never nil, when
// the backend has no data.
func (c *Client) List(ctx context.Context) ([]Resume, error) {
	var out struct {
		Resumes []Resume `json:"resumes"`
	}
	if err := c.post(ctx, "list", pathGetResumes, struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.Resumes == nil {
		return []Resume{}, nil
	}
	return out.Resumes, nil
}

// GetByID fetches a single resume record.
func (c *Client) GetByID(ctx context.Context, id int64) (*Resume, error) {
	req := map[string]int64{"resume_id": id}

	var out struct {
		Resume *Resume `json:"resume"`
	}
	err := c.post(ctx, "get", pathGetByID, req, &out)
	if err != nil {
		var storeErr *StoreError
		if errors.As(err, &storeErr) && storeErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{ResumeID: id}
		}
		return nil, err
	}
	if out.Resume == nil {
		return nil, &NotFoundError{ResumeID: id}
	}
	return out.Resume, nil
}

// UpdateStatus merges the provided fields into the record server-side. No
// optimistic local merge happens here; callers refetch the list after success.
func (c *Client) UpdateStatus(ctx context.Context, id int64, fields map[string]any) error {
	req := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		req[k] = v
	}
	req["resume_id"] = id

	return c.post(ctx, "update-status", pathUpdateStatus, req, nil)
}

// GetChatHistory fetches the persisted conversation for a resume.
func (c *Client) GetChatHistory(ctx context.Context, id int64) ([]ChatMessage, error) {
	req := map[string]int64{"resume_id": id}

	var out struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.post(ctx, "chat-history", pathChatHistory, req, &out); err != nil {
		return nil, err
	}
	if out.Messages == nil {
		return []ChatMessage{}, nil
	}
	return out.Messages, nil
}

// SendChatMessage persists a chat message for a resume. Fire-and-forget from
// the caller's perspective; the response body is ignored.
func (c *Client) SendChatMessage(ctx context.Context, id int64, message string) error {
	req := map[string]any{
		"message":   message,
		"resume_id": id,
	}
	return c.post(ctx, "send-message", pathSendMessage, req, nil)
}

// ParseResume asks the backend to extract structured fields from an uploaded
// file. The result is a partial field set suitable for UpdateStatus.
func (c *Client) ParseResume(ctx context.Context, fileURL string) (map[string]any, error) {
	req := map[string]string{"file_url": fileURL}

	var out map[string]any
	if err := c.post(ctx, "parse", pathParseResume, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// post issues one JSON request/response round trip. A non-success status maps
// to StoreError; out may be nil when the response body does not matter.
func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &StoreError{Op: op, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &StoreError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &StoreError{Op: op, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StoreError{Op: op, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StoreError{Op: op, StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &StoreError{Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}
