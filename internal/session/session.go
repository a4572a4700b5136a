package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/logger"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/store"
)

// Session pairs the conversation log with a selected resume and the cached
// resume list. At most one resume is selected at a time; selecting a new one
// replaces the message log wholesale.
//
// Every hydration and list refresh carries a monotonically increasing token
// per flow category; a resolution whose token is no longer the latest is
// discarded, so a superseded request can never clobber newer state.
type Session struct {
	conv  *Conversation
	store *store.Client

	mu         sync.Mutex
	selectedID int64
	resumes    []store.Resume

	selectToken atomic.Uint64
	listToken   atomic.Uint64
}

// New creates a session seeded with the assistant greeting.
func New(storeClient *store.Client, llmClient llm.Client) *Session {
	conv := NewConversation(llmClient)
	conv.Append(RoleBot, prompts.MustGet("chat.json", "greeting"))
	return &Session{
		conv:  conv,
		store: storeClient,
	}
}

// Conversation returns the session's conversation engine.
func (s *Session) Conversation() *Conversation {
	return s.conv
}

// SelectedResumeID returns the currently selected resume id, or 0 if none.
func (s *Session) SelectedResumeID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Resumes returns the cached resume list from the last refresh.
func (s *Session) Resumes() []store.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Resume, len(s.resumes))
	copy(out, s.resumes)
	return out
}

// Select loads the resume record and its chat history in parallel, replaces
// the message log wholesale with the rehydrated history, and requests one
// screening comment appended as a bot message. If either fetch fails the
// prior session state is left untouched. A Select superseded by a newer one
// discards its results.
func (s *Session) Select(ctx context.Context, id int64) error {
	token := s.selectToken.Add(1)

	var resume *store.Resume
	var history []store.ChatMessage

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.GetByID(gCtx, id)
		if err != nil {
			return err
		}
		resume = r
		return nil
	})
	g.Go(func() error {
		h, err := s.store.GetChatHistory(gCtx, id)
		if err != nil {
			return err
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch resume data: %w", err)
	}

	messages := make([]Message, 0, len(history))
	for _, msg := range history {
		role := RoleUser
		if msg.IsBot {
			role = RoleBot
		}
		messages = append(messages, Message{Role: role, Content: msg.Message})
	}

	// The token recheck and the state swap commit together under the lock;
	// a newer Select bumped the token before its own fetches began, so a
	// stale winner can never land between our check and our commit.
	s.mu.Lock()
	if s.selectToken.Load() != token {
		s.mu.Unlock()
		logger.Debug("select of resume %d superseded, discarding", id)
		return nil
	}
	s.conv.Replace(messages)
	s.selectedID = id
	s.mu.Unlock()

	// Screening comment is a secondary enrichment: its failure degrades
	// gracefully and never undoes the hydration.
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		logger.Warn("failed to encode resume %d for screening: %v", id, err)
		return nil
	}
	prompt := prompts.Format(prompts.MustGet("chat.json", "screening-feedback"), map[string]string{
		"ResumeJSON": string(resumeJSON),
	})

	comment, err := s.conv.RequestCompletion(ctx, prompt)
	if err != nil {
		logger.Warn("screening comment for resume %d skipped: %v", id, err)
		return nil
	}
	s.mu.Lock()
	if s.selectToken.Load() == token {
		s.conv.Append(RoleBot, comment)
	}
	s.mu.Unlock()
	return nil
}

// SendMessage appends the user message, persists it when a resume is
// selected (fire-and-forget), and requests one completion appended as the
// bot reply.
func (s *Session) SendMessage(ctx context.Context, content string) (string, error) {
	s.conv.Append(RoleUser, content)

	if id := s.SelectedResumeID(); id != 0 {
		if err := s.store.SendChatMessage(ctx, id, content); err != nil {
			logger.Warn("failed to persist chat message for resume %d: %v", id, err)
		}
	}

	reply, err := s.conv.RequestCompletion(ctx, "")
	if err != nil {
		return "", err
	}
	s.conv.Append(RoleBot, reply)
	return reply, nil
}

// RefreshResumes refetches the resume list. A refresh superseded by a newer
// one discards its result.
func (s *Session) RefreshResumes(ctx context.Context) error {
	token := s.listToken.Add(1)

	resumes, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.listToken.Load() != token {
		s.mu.Unlock()
		logger.Debug("resume list refresh superseded, discarding")
		return nil
	}
	s.resumes = resumes
	s.mu.Unlock()
	return nil
}

// SetResumeStatus issues one update-status call followed by one list refresh.
func (s *Session) SetResumeStatus(ctx context.Context, id int64, status string) error {
	if err := s.store.UpdateStatus(ctx, id, map[string]any{"status": status}); err != nil {
		return err
	}
	return s.RefreshResumes(ctx)
}
