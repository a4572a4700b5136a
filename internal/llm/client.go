// Package llm provides chat-completion clients and a provider abstraction.
// The default provider speaks the generic chat-completions HTTP wire format
// ({messages, json_schema?} -> {choices: [{message: {content}}]}); a Gemini
// provider is available for runs pointed directly at Google's API.
package llm

import (
	"context"
	"time"
)

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message in completion-service terms.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema describes a json_schema payload for schema-guided completions.
type Schema struct {
	Name   string
	Schema string
}

// Client is an abstraction over chat-completion providers.
type Client interface {
	// Chat sends the full message sequence and returns the single textual completion.
	Chat(ctx context.Context, messages []Message) (string, error)
	// ChatJSON sends the message sequence with a schema constraint; the returned
	// content is a JSON string that the caller decodes in a second stage.
	ChatJSON(ctx context.Context, messages []Message, schema Schema) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Provider represents a completion provider.
type Provider string

// Provider constants define supported completion providers.
const (
	// ProviderChatGPT is the generic chat-completions HTTP endpoint.
	ProviderChatGPT Provider = "chatgpt"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds client configuration shared by all providers.
type Config struct {
	Provider Provider
	// BaseURL is the completion endpoint URL (chatgpt provider only).
	BaseURL string
	// Model is the model name passed to the service. Optional for the chatgpt
	// provider when the endpoint pins its own model.
	Model string
	// APIKey authenticates against the provider. Optional for the chatgpt
	// provider when the endpoint is unauthenticated.
	APIKey string
	// Timeout bounds each completion request (default 120s).
	Timeout time.Duration
}

// NewClient creates a completion client based on configuration.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return NewChatGPTClient(cfg)
	}
}
