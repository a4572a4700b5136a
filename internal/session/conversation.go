// Package session provides the in-memory conversation engine and the session
// state machine pairing a selected resume with the current message log.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
)

// Role identifies the author of a displayed message.
type Role string

// Message roles as displayed in the conversation log.
const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry in the conversation log. Insertion order is display
// order and the order submitted to the completion service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation owns the ordered, append-only message log and drives calls to
// the chat-completion service. Completion requests are serialized: the gate
// blocks a second request until the prior one resolves.
type Conversation struct {
	client llm.Client

	mu       sync.Mutex
	messages []Message

	gate    sync.Mutex
	pending atomic.Bool
}

// NewConversation creates an empty conversation backed by the given client.
func NewConversation(client llm.Client) *Conversation {
	return &Conversation{client: client}
}

// Append adds a message to the log. Pure state mutation; always succeeds.
func (c *Conversation) Append(role Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the current log in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Replace swaps the entire log for a rehydrated history. The log is always
// either entirely fresh or entirely rehydrated, never a splice of both.
func (c *Conversation) Replace(messages []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make([]Message, len(messages))
	copy(c.messages, messages)
}

// Pending reports whether a completion request is in flight.
func (c *Conversation) Pending() bool {
	return c.pending.Load()
}

// RequestCompletion serializes the full current log, plus an optional extra
// user message that is not part of the visible log, and returns the single
// textual completion. On failure a fixed apology message is appended to the
// visible log instead of the raw error; the error is still returned so
// callers can log it or abort their flow.
//
// At most one completion request is in flight per conversation; concurrent
// callers block until the prior request resolves.
func (c *Conversation) RequestCompletion(ctx context.Context, extra string) (string, error) {
	c.gate.Lock()
	defer c.gate.Unlock()

	c.pending.Store(true)
	defer c.pending.Store(false)

	content, err := c.client.Chat(ctx, c.serviceMessages(extra))
	if err != nil {
		c.Append(RoleBot, prompts.MustGet("chat.json", "apology"))
		return "", err
	}
	return content, nil
}

// serviceMessages maps the log into completion-service terms: user stays
// user, bot becomes assistant.
func (c *Conversation) serviceMessages(extra string) []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, 0, len(c.messages)+1)
	for _, msg := range c.messages {
		role := llm.RoleUser
		if msg.Role == RoleBot {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: msg.Content})
	}
	if extra != "" {
		out = append(out, llm.Message{Role: llm.RoleUser, Content: extra})
	}
	return out
}
