package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds completion requests when no timeout is configured.
const DefaultTimeout = 120 * time.Second

// ChatGPTClient implements Client against a chat-completions HTTP endpoint.
type ChatGPTClient struct {
	client *http.Client
	url    string
	apiKey string
	model  string
}

// chatCompletionRequest is the chat-completions request format.
type chatCompletionRequest struct {
	Model      string           `json:"model,omitempty"`
	Messages   []Message        `json:"messages"`
	JSONSchema *jsonSchemaParam `json:"json_schema,omitempty"`
}

// jsonSchemaParam carries the schema constraint for schema-guided calls.
// The schema document is forwarded verbatim.
type jsonSchemaParam struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

// chatCompletionResponse is the chat-completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewChatGPTClient creates a client for a chat-completions HTTP endpoint.
func NewChatGPTClient(cfg Config) (*ChatGPTClient, error) {
	if cfg.BaseURL == "" {
		return nil, &CompletionError{Message: "completion endpoint URL is required"}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &ChatGPTClient{
		client: &http.Client{Timeout: timeout},
		url:    cfg.BaseURL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}, nil
}

// Chat sends the full message sequence and returns the single textual completion.
func (c *ChatGPTClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
}

// ChatJSON sends the message sequence with a json_schema constraint. The
// returned content is itself a JSON string; decoding it is the caller's
// second stage.
func (c *ChatGPTClient) ChatJSON(ctx context.Context, messages []Message, schema Schema) (string, error) {
	req := chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if schema.Schema != "" {
		req.JSONSchema = &jsonSchemaParam{
			Name:   schema.Name,
			Schema: json.RawMessage(schema.Schema),
		}
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(content), nil
}

// Close releases resources held by the client.
func (c *ChatGPTClient) Close() error {
	return nil
}

func (c *ChatGPTClient) complete(ctx context.Context, reqBody chatCompletionRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CompletionError{Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &CompletionError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &CompletionError{Message: "failed to send request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &CompletionError{
			Message:    string(body),
			StatusCode: resp.StatusCode,
		}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &ParseError{Message: "failed to decode response body", Cause: err}
	}

	if chatResp.Error != nil {
		return "", &CompletionError{Message: chatResp.Error.Message}
	}

	if len(chatResp.Choices) == 0 {
		return "", &ParseError{Message: "no choices in response"}
	}

	return chatResp.Choices[0].Message.Content, nil
}
