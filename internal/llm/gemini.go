package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured for the Gemini provider.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &CompletionError{Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, &CompletionError{Message: "failed to create Gemini client", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Chat sends the message sequence as a multi-turn Gemini conversation.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages, false)
}

// ChatJSON sends the message sequence constrained to a JSON response.
// Gemini enforces the constraint through the response MIME type; the schema
// document itself is validated by the caller's second decode stage.
func (c *GeminiClient) ChatJSON(ctx context.Context, messages []Message, _ Schema) (string, error) {
	content, err := c.generate(ctx, messages, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(content), nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generate(ctx context.Context, messages []Message, asJSON bool) (string, error) {
	if len(messages) == 0 {
		return "", &CompletionError{Message: "no messages to send"}
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	// System messages become the system instruction; the rest form the chat.
	var turns []Message
	var system []string
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n"))},
		}
	}
	if len(turns) == 0 {
		return "", &CompletionError{Message: "no user messages to send"}
	}

	cs := model.StartChat()
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", &CompletionError{Message: "failed to generate content", Cause: err}
	}

	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &ParseError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ParseError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &ParseError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
