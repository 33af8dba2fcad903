package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "ok",
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// fakeBackend is a minimal in-memory rendition of the chat API.
type fakeBackend struct {
	mu       sync.Mutex
	sessions []*dto.SessionResponse
	pages    map[string]*dto.GetPaginatedMessagesResponse // keyed by "key" or "key:cursor"
	reply    string
	failSend bool

	sendStarted  chan struct{}
	sendBlocker  chan struct{}
	createdCount int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pages: make(map[string]*dto.GetPaginatedMessagesResponse),
		reply: "assistant says hi",
	}
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/chat/v1/sessions":
			writeSuccess(w, b.sessions)

		case r.Method == http.MethodPost && r.URL.Path == "/api/chat/v1/sessions":
			var req dto.CreateSessionRequest
			json.NewDecoder(r.Body).Decode(&req)
			b.createdCount++
			created := &dto.SessionResponse{
				Id: uuid.New(), Title: req.Title, SessionId: req.SessionId,
				CreatedAt: time.Now(), UpdatedAt: time.Now(), IsActive: true,
			}
			b.sessions = append(b.sessions, created)
			writeSuccess(w, created)

		case r.Method == http.MethodPost && r.URL.Path == "/api/chat/v1/message":
			if b.sendStarted != nil {
				close(b.sendStarted)
				b.sendStarted = nil
				blocker := b.sendBlocker
				b.mu.Unlock()
				<-blocker
				b.mu.Lock()
			}
			if b.failSend {
				writeError(w, http.StatusInternalServerError, "Request failed, please retry")
				return
			}
			var req dto.SendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			writeSuccess(w, dto.SendMessageResponse{
				Content: b.reply, UserMessageId: req.Id, AiMessageId: uuid.New(),
			})

		case r.Method == http.MethodGet && len(r.URL.Path) > len("/api/chat/v1/sessions/"):
			key := r.URL.Path[len("/api/chat/v1/sessions/") : len(r.URL.Path)-len("/messages")]
			lookup := key
			if cursor := r.URL.Query().Get("cursor"); cursor != "" {
				lookup = key + ":" + cursor
			}
			page, ok := b.pages[lookup]
			if !ok {
				writeError(w, http.StatusNotFound, "chat session not found")
				return
			}
			writeSuccess(w, page)

		default:
			writeError(w, http.StatusNotFound, "no route")
		}
	})
}

func newTestController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return NewController(NewClient(srv.URL, uuid.New()))
}

func makeMessages(n int, start time.Time) []*dto.ChatMessageDTO {
	out := make([]*dto.ChatMessageDTO, n)
	for i := range out {
		role := constant.ChatMessageRoleUser
		if i%2 == 1 {
			role = constant.ChatMessageRoleAssistant
		}
		out[i] = &dto.ChatMessageDTO{
			Id: uuid.New(), Role: role, Content: "turn", Timestamp: start.Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

func TestStartAutoCreatesFirstSession(t *testing.T) {
	backend := newFakeBackend()
	c := newTestController(t, backend)

	err := c.Start(context.Background())
	assert.NoError(t, err)

	sessions := c.Sessions()
	assert.Len(t, sessions, 1)
	assert.Equal(t, constant.DefaultSessionTitle, sessions[0].Title)
	assert.Equal(t, 1, backend.createdCount)
}

func TestStartKeepsExistingSessions(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{
		{Id: uuid.New(), SessionId: "s1", Title: "Resume Help"},
	}
	c := newTestController(t, backend)

	err := c.Start(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 0, backend.createdCount)
	view, ok := c.Session("s1")
	assert.True(t, ok)
	assert.Equal(t, StatusUninitialized, view.Status)
}

func TestOpenLoadsNewestPage(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}
	msgs := makeMessages(3, time.Now().Add(-time.Minute))
	backend.pages["s1"] = &dto.GetPaginatedMessagesResponse{Messages: msgs, HasNextPage: false}

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Open(context.Background(), "s1"))

	view, _ := c.Session("s1")
	assert.Equal(t, StatusReady, view.Status)
	assert.Len(t, view.Messages, 3)
	assert.False(t, view.HasOlderMessages)

	// opening again is a no-op
	assert.NoError(t, c.Open(context.Background(), "s1"))
}

func TestOpenFailureRevertsToUninitialized(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Open(context.Background(), "s1")) // no page registered -> 404

	view, _ := c.Session("s1")
	assert.Equal(t, StatusUninitialized, view.Status)
}

func TestSendMergesConfirmedReply(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{
		{Id: uuid.New(), SessionId: "s1", Title: "old", UpdatedAt: time.Now().Add(-time.Hour)},
		{Id: uuid.New(), SessionId: "s2", Title: "newer", UpdatedAt: time.Now()},
	}
	backend.pages["s1"] = &dto.GetPaginatedMessagesResponse{Messages: nil, HasNextPage: false}

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Open(context.Background(), "s1"))

	err := c.Send(context.Background(), "s1", "review my resume please, it needs work")
	assert.NoError(t, err)

	view, _ := c.Session("s1")
	assert.Len(t, view.Messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, view.Messages[0].Role)
	assert.Equal(t, "assistant says hi", view.Messages[1].Content)
	assert.False(t, view.Pending)

	// optimistic title applied on the first message of an empty session
	assert.Equal(t, "Resume Help", view.Info.Title)

	// session moved to the front after a successful send
	sessions := c.Sessions()
	assert.Equal(t, "s1", sessions[0].SessionId)
}

func TestSendFailureKeepsUserMessageAndAppendsApology(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}
	backend.pages["s1"] = &dto.GetPaginatedMessagesResponse{}
	backend.failSend = true

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Open(context.Background(), "s1"))

	err := c.Send(context.Background(), "s1", "hello")
	assert.Error(t, err)

	view, _ := c.Session("s1")
	assert.Len(t, view.Messages, 2)
	assert.Equal(t, "hello", view.Messages[0].Content)
	assert.Equal(t, constant.GenerationApology, view.Messages[1].Content)
	assert.False(t, view.Pending)
}

func TestSendGatesConcurrentSends(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}
	backend.pages["s1"] = &dto.GetPaginatedMessagesResponse{}
	started := make(chan struct{})
	blocker := make(chan struct{})
	backend.sendStarted = started
	backend.sendBlocker = blocker

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Open(context.Background(), "s1"))

	done := make(chan error, 1)
	go func() {
		done <- c.Send(context.Background(), "s1", "first")
	}()
	<-started

	err := c.Send(context.Background(), "s1", "second")
	assert.ErrorIs(t, err, ErrSendInFlight)

	close(blocker)
	assert.NoError(t, <-done)
}

func TestFetchOlderMessagesPrepends(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}

	older := makeMessages(2, time.Now().Add(-2*time.Minute))
	newer := makeMessages(2, time.Now().Add(-time.Minute))
	cursor := older[len(older)-1].Id

	backend.pages["s1"] = &dto.GetPaginatedMessagesResponse{
		Messages: newer, HasNextPage: true, NextCursor: &cursor,
	}
	backend.pages["s1:"+cursor.String()] = &dto.GetPaginatedMessagesResponse{
		Messages: older, HasNextPage: false,
	}

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Open(context.Background(), "s1"))

	view, _ := c.Session("s1")
	assert.True(t, view.HasOlderMessages)

	assert.NoError(t, c.FetchOlderMessages(context.Background(), "s1"))

	view, _ = c.Session("s1")
	assert.Len(t, view.Messages, 4)
	assert.Equal(t, older[0].Id, view.Messages[0].Id)
	assert.Equal(t, newer[1].Id, view.Messages[3].Id)
	assert.False(t, view.HasOlderMessages)

	// nothing older left: further fetches are silent no-ops
	assert.NoError(t, c.FetchOlderMessages(context.Background(), "s1"))
	view, _ = c.Session("s1")
	assert.Len(t, view.Messages, 4)
}

func TestFetchOlderMessagesRequiresReady(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{{Id: uuid.New(), SessionId: "s1", Title: "t"}}

	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))

	err := c.FetchOlderMessages(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestDeleteSessionRemovesLocalState(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []*dto.SessionResponse{
		{Id: uuid.New(), SessionId: "s1", Title: "a"},
		{Id: uuid.New(), SessionId: "s2", Title: "b"},
	}
	c := newTestController(t, backend)
	assert.NoError(t, c.Start(context.Background()))

	// backend handler has no DELETE route; only local behavior matters here
	err := c.DeleteSession(context.Background(), "s1")
	assert.Error(t, err)

	// failed delete leaves state intact
	assert.Len(t, c.Sessions(), 2)
}
