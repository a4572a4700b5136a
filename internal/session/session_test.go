package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/store"
)

// storeFixture is a scripted persistence backend for session tests.
type storeFixture struct {
	mu       sync.Mutex
	requests map[string]int

	resumes   map[int64]store.Resume
	histories map[int64][]store.ChatMessage

	// blockHistory, when set for an id, holds the chat-history response until
	// the channel is closed.
	blockHistory map[int64]chan struct{}
	historyBegan chan int64
}

func newStoreFixture() *storeFixture {
	return &storeFixture{
		requests:     make(map[string]int),
		resumes:      make(map[int64]store.Resume),
		histories:    make(map[int64][]store.ChatMessage),
		blockHistory: make(map[int64]chan struct{}),
	}
}

func (f *storeFixture) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *storeFixture) server(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests[r.URL.Path]++
		f.mu.Unlock()

		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		id := int64(0)
		if v, ok := req["resume_id"].(float64); ok {
			id = int64(v)
		}

		switch r.URL.Path {
		case "/get-resume-by-id":
			f.mu.Lock()
			resume, ok := f.resumes[id]
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"resume": resume})
		case "/get-chat-history":
			f.mu.Lock()
			block := f.blockHistory[id]
			began := f.historyBegan
			history := f.histories[id]
			f.mu.Unlock()
			if began != nil {
				began <- id
			}
			if block != nil {
				<-block
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
		case "/get-resumes":
			f.mu.Lock()
			list := make([]store.Resume, 0, len(f.resumes))
			for _, resume := range f.resumes {
				list = append(list, resume)
			}
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"resumes": list})
		case "/update-resume-status", "/send-chat-message":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSelect_HydratesWholesale(t *testing.T) {
	fixture := newStoreFixture()
	fixture.resumes[7] = store.Resume{ID: 7, CandidateName: "Grace Hopper", Status: store.StatusPending}
	fixture.histories[7] = []store.ChatMessage{
		{IsBot: true, Message: "Hello"},
		{IsBot: false, Message: "Here is my resume"},
	}
	server := fixture.server(t)

	client := &fakeLLM{reply: "Strong candidate."}
	sess := New(store.NewClient(server.URL), client)

	err := sess.Select(context.Background(), 7)
	require.NoError(t, err)

	messages := sess.Conversation().Messages()
	require.Len(t, messages, 3, "greeting replaced by rehydrated history plus screening comment")
	assert.Equal(t, RoleBot, messages[0].Role)
	assert.Equal(t, "Hello", messages[0].Content)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "Strong candidate.", messages[2].Content)
	assert.Equal(t, int64(7), sess.SelectedResumeID())
}

func TestSelect_FetchFailureLeavesStateUntouched(t *testing.T) {
	fixture := newStoreFixture()
	// No resume 9: get-resume-by-id returns 404.
	fixture.histories[9] = []store.ChatMessage{{IsBot: false, Message: "should not appear"}}
	server := fixture.server(t)

	client := &fakeLLM{reply: "unused"}
	sess := New(store.NewClient(server.URL), client)

	before := sess.Conversation().Messages()
	err := sess.Select(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch resume data")

	assert.Equal(t, before, sess.Conversation().Messages(), "no partial hydration")
	assert.Zero(t, sess.SelectedResumeID())
	assert.Zero(t, client.callCount(), "no screening request after a failed fetch")
}

func TestSelect_SupersededSelectionDiscarded(t *testing.T) {
	fixture := newStoreFixture()
	fixture.resumes[1] = store.Resume{ID: 1, CandidateName: "A", Status: store.StatusPending}
	fixture.resumes[2] = store.Resume{ID: 2, CandidateName: "B", Status: store.StatusPending}
	fixture.histories[1] = []store.ChatMessage{{IsBot: false, Message: "history of A"}}
	fixture.histories[2] = []store.ChatMessage{{IsBot: false, Message: "history of B"}}

	blockA := make(chan struct{})
	fixture.blockHistory[1] = blockA
	began := make(chan int64, 4)
	fixture.historyBegan = began
	server := fixture.server(t)

	client := &fakeLLM{reply: "screening"}
	sess := New(store.NewClient(server.URL), client)

	done := make(chan error, 1)
	go func() {
		done <- sess.Select(context.Background(), 1)
	}()

	// Wait until A's history fetch is in flight, then let B win the race.
	require.Equal(t, int64(1), <-began)
	require.NoError(t, sess.Select(context.Background(), 2))
	<-began // B's own history fetch

	close(blockA)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded select did not resolve")
	}

	messages := sess.Conversation().Messages()
	require.NotEmpty(t, messages)
	assert.Equal(t, "history of B", messages[0].Content,
		"log must equal B's rehydrated history, never an interleaving")
	for _, msg := range messages {
		assert.NotContains(t, msg.Content, "history of A")
	}
	assert.Equal(t, int64(2), sess.SelectedResumeID())
}

func TestSelect_ConcurrentSelectsNeverInterleave(t *testing.T) {
	fixture := newStoreFixture()
	fixture.resumes[1] = store.Resume{ID: 1, CandidateName: "A", Status: store.StatusPending}
	fixture.resumes[2] = store.Resume{ID: 2, CandidateName: "B", Status: store.StatusPending}
	fixture.histories[1] = []store.ChatMessage{{IsBot: false, Message: "history of A"}}
	fixture.histories[2] = []store.ChatMessage{{IsBot: false, Message: "history of B"}}
	server := fixture.server(t)

	for i := 0; i < 30; i++ {
		client := &fakeLLM{reply: "screening"}
		sess := New(store.NewClient(server.URL), client)

		var wg sync.WaitGroup
		for _, id := range []int64{1, 2} {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_ = sess.Select(context.Background(), id)
			}(id)
		}
		wg.Wait()

		// Whichever select committed last owns the whole log; the loser's
		// fetched history must never overwrite or splice into it.
		selected := sess.SelectedResumeID()
		require.Contains(t, []int64{1, 2}, selected)
		want := fixture.histories[selected][0].Message
		other := fixture.histories[3-selected][0].Message

		messages := sess.Conversation().Messages()
		require.NotEmpty(t, messages)
		assert.Equal(t, want, messages[0].Content)
		for _, msg := range messages {
			assert.NotEqual(t, other, msg.Content)
		}
	}
}

func TestSendMessage_PersistsWhenSelected(t *testing.T) {
	fixture := newStoreFixture()
	fixture.resumes[7] = store.Resume{ID: 7, CandidateName: "G", Status: store.StatusPending}
	server := fixture.server(t)

	client := &fakeLLM{reply: "reply"}
	sess := New(store.NewClient(server.URL), client)
	require.NoError(t, sess.Select(context.Background(), 7))

	before := len(sess.Conversation().Messages())
	reply, err := sess.SendMessage(context.Background(), "What do you think?")
	require.NoError(t, err)
	assert.Equal(t, "reply", reply)

	assert.Equal(t, 1, fixture.count("/send-chat-message"))
	messages := sess.Conversation().Messages()
	require.Len(t, messages, before+2)
	assert.Equal(t, RoleUser, messages[before].Role)
	assert.Equal(t, RoleBot, messages[before+1].Role)
}

func TestSendMessage_NoPersistWithoutSelection(t *testing.T) {
	fixture := newStoreFixture()
	server := fixture.server(t)

	client := &fakeLLM{reply: "reply"}
	sess := New(store.NewClient(server.URL), client)

	_, err := sess.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Zero(t, fixture.count("/send-chat-message"))
}

func TestSetResumeStatus_UpdateThenRefresh(t *testing.T) {
	fixture := newStoreFixture()
	fixture.resumes[7] = store.Resume{ID: 7, CandidateName: "G", Status: store.StatusPending}
	server := fixture.server(t)

	client := &fakeLLM{}
	sess := New(store.NewClient(server.URL), client)

	err := sess.SetResumeStatus(context.Background(), 7, store.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.count("/update-resume-status"))
	assert.Equal(t, 1, fixture.count("/get-resumes"))
	assert.Len(t, sess.Resumes(), 1)
}

func TestRefreshResumes_EmptyList(t *testing.T) {
	fixture := newStoreFixture()
	server := fixture.server(t)

	sess := New(store.NewClient(server.URL), &fakeLLM{})

	require.NoError(t, sess.RefreshResumes(context.Background()))
	assert.NotNil(t, sess.Resumes())
	assert.Empty(t, sess.Resumes())
}

func TestNew_SeedsGreeting(t *testing.T) {
	fixture := newStoreFixture()
	server := fixture.server(t)

	sess := New(store.NewClient(server.URL), &fakeLLM{})

	messages := sess.Conversation().Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, RoleBot, messages[0].Role)
	assert.Contains(t, messages[0].Content, "resume assistant")
}
