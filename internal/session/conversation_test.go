package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/llm"
)

// fakeLLM is a scripted completion client for engine tests.
type fakeLLM struct {
	mu    sync.Mutex
	calls [][]llm.Message

	reply string
	err   error

	// Optional hooks for concurrency tests.
	entered chan struct{}
	release chan struct{}

	inFlight      atomic.Int32
	maxConcurrent atomic.Int32
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message) (string, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxConcurrent.Load()
		if current <= max || f.maxConcurrent.CompareAndSwap(max, current) {
			break
		}
	}

	f.mu.Lock()
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	f.calls = append(f.calls, snapshot)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeLLM) ChatJSON(ctx context.Context, messages []llm.Message, _ llm.Schema) (string, error) {
	return f.Chat(ctx, messages)
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestAppend_PreservesCallOrder(t *testing.T) {
	conv := NewConversation(&fakeLLM{})

	for i := 0; i < 10; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleBot
		}
		conv.Append(role, fmt.Sprintf("message %d", i))
	}

	messages := conv.Messages()
	require.Len(t, messages, 10)
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
	}
}

func TestRequestCompletion_MapsRoles(t *testing.T) {
	client := &fakeLLM{reply: "fine"}
	conv := NewConversation(client)
	conv.Append(RoleBot, "welcome")
	conv.Append(RoleUser, "hello")

	_, err := conv.RequestCompletion(context.Background(), "extra question")
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	sent := client.calls[0]
	require.Len(t, sent, 3)
	assert.Equal(t, llm.RoleAssistant, sent[0].Role)
	assert.Equal(t, "welcome", sent[0].Content)
	assert.Equal(t, llm.RoleUser, sent[1].Role)
	assert.Equal(t, llm.RoleUser, sent[2].Role)
	assert.Equal(t, "extra question", sent[2].Content)
}

func TestRequestCompletion_SuccessDoesNotMutateLog(t *testing.T) {
	client := &fakeLLM{reply: "fine"}
	conv := NewConversation(client)
	conv.Append(RoleUser, "hello")

	reply, err := conv.RequestCompletion(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "fine", reply)
	assert.Len(t, conv.Messages(), 1, "the engine returns content; appending is the caller's job")
}

func TestRequestCompletion_FailureAppendsApology(t *testing.T) {
	client := &fakeLLM{err: errors.New("boom")}
	conv := NewConversation(client)
	conv.Append(RoleUser, "hello")

	_, err := conv.RequestCompletion(context.Background(), "")
	require.Error(t, err)

	messages := conv.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleBot, messages[1].Role)
	assert.Equal(t, "Sorry, I encountered an error.", messages[1].Content)
}

func TestRequestCompletion_MutualExclusion(t *testing.T) {
	client := &fakeLLM{reply: "ok"}
	conv := NewConversation(client)
	conv.Append(RoleUser, "hello")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = conv.RequestCompletion(context.Background(), "")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, client.callCount())
	assert.Equal(t, int32(1), client.maxConcurrent.Load(),
		"no two completion requests may be in flight at once")
}

func TestPending_TrueWhileInFlight(t *testing.T) {
	client := &fakeLLM{
		reply:   "ok",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	conv := NewConversation(client)
	conv.Append(RoleUser, "hello")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = conv.RequestCompletion(context.Background(), "")
	}()

	<-client.entered
	assert.True(t, conv.Pending())
	close(client.release)
	<-done
	assert.False(t, conv.Pending())
}

func TestAppend_DuringPendingCompletion(t *testing.T) {
	client := &fakeLLM{
		reply:   "ok",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	conv := NewConversation(client)
	conv.Append(RoleUser, "first")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = conv.RequestCompletion(context.Background(), "")
	}()

	<-client.entered
	// Appends stay synchronous and ordered regardless of the pending request.
	conv.Append(RoleUser, "second")
	conv.Append(RoleUser, "third")
	close(client.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion did not resolve")
	}

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
}
