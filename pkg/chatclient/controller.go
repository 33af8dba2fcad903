package chatclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/dto"
	"ai-career-counselor-be/pkg/counselor"

	"github.com/google/uuid"
)

type LoadingStatus string

const (
	StatusUninitialized LoadingStatus = "uninitialized"
	StatusLoading       LoadingStatus = "loading"
	StatusReady         LoadingStatus = "ready"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrSendInFlight   = errors.New("a send is already in flight for this session")
	ErrNotReady       = errors.New("session transcript is not loaded")
)

type sessionState struct {
	info              *dto.SessionResponse
	messages          []*dto.ChatMessageDTO
	status            LoadingStatus
	pending           bool
	fetchingOlderPage bool
	cursor            *uuid.UUID
	hasOlderMessages  bool
}

// SessionView is a read-only snapshot of one session's client state.
type SessionView struct {
	Info              dto.SessionResponse
	Messages          []*dto.ChatMessageDTO
	Status            LoadingStatus
	Pending           bool
	FetchingOlderPage bool
	HasOlderMessages  bool
}

// Controller drives the conversation UI state over the HTTP client.
// Every mutation is optimistic where the backend allows it: the user's
// message appears immediately and is never rolled back, even when the
// send ultimately fails.
type Controller struct {
	mu       sync.Mutex
	api      *Client
	order    []string // session keys, most recently updated first
	states   map[string]*sessionState
	pageSize int
}

func NewController(api *Client) *Controller {
	return &Controller{
		api:      api,
		states:   make(map[string]*sessionState),
		pageSize: constant.DefaultMessageLimit,
	}
}

// Start loads the session list. A client with no sessions gets one
// created for it so the UI always has somewhere to type.
func (c *Controller) Start(ctx context.Context) error {
	sessions, err := c.api.GetSessions(ctx)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		created, err := c.api.CreateSession(ctx, &dto.CreateSessionRequest{
			SessionId: uuid.NewString(),
			Title:     constant.DefaultSessionTitle,
		})
		if err != nil {
			return err
		}
		sessions = []*dto.SessionResponse{created}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	for _, session := range sessions {
		c.order = append(c.order, session.SessionId)
		c.states[session.SessionId] = &sessionState{
			info:   session,
			status: StatusUninitialized,
		}
	}
	return nil
}

// Sessions returns the session list most-recently-updated-first.
func (c *Controller) Sessions() []dto.SessionResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]dto.SessionResponse, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.states[key].info)
	}
	return out
}

// Session returns a snapshot of one session's state.
func (c *Controller) Session(sessionKey string) (SessionView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[sessionKey]
	if !ok {
		return SessionView{}, false
	}
	return SessionView{
		Info:              *state.info,
		Messages:          append([]*dto.ChatMessageDTO(nil), state.messages...),
		Status:            state.status,
		Pending:           state.pending,
		FetchingOlderPage: state.fetchingOlderPage,
		HasOlderMessages:  state.hasOlderMessages,
	}, true
}

// Open loads the newest page of a session's transcript. Calling it on
// a loading or ready session is a no-op.
func (c *Controller) Open(ctx context.Context, sessionKey string) error {
	c.mu.Lock()
	state, ok := c.states[sessionKey]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownSession
	}
	if state.status != StatusUninitialized {
		c.mu.Unlock()
		return nil
	}
	state.status = StatusLoading
	c.mu.Unlock()

	page, err := c.api.GetMessages(ctx, sessionKey, c.pageSize, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		state.status = StatusUninitialized
		return err
	}
	state.messages = page.Messages
	state.cursor = page.NextCursor
	state.hasOlderMessages = page.HasNextPage
	state.status = StatusReady
	return nil
}

// Send appends the user's message locally, then asks the backend for
// the counselor reply. On failure the optimistic user message stays and
// a local apology entry is appended in place of the reply.
func (c *Controller) Send(ctx context.Context, sessionKey, content string) error {
	now := time.Now()
	userMessage := &dto.ChatMessageDTO{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleUser,
		Content:   content,
		Timestamp: now,
	}

	c.mu.Lock()
	state, ok := c.states[sessionKey]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownSession
	}
	if state.pending {
		c.mu.Unlock()
		return ErrSendInFlight
	}

	if len(state.messages) == 0 {
		state.info.Title = counselor.GenerateSessionTitle(content)
	}
	state.messages = append(state.messages, userMessage)
	state.pending = true
	c.mu.Unlock()

	res, err := c.api.SendMessage(ctx, &dto.SendMessageRequest{
		Id:        userMessage.Id,
		SessionId: sessionKey,
		Role:      constant.ChatMessageRoleUser,
		Content:   content,
		Timestamp: now,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	state.pending = false

	if err != nil {
		state.messages = append(state.messages, &dto.ChatMessageDTO{
			Id:        uuid.New(),
			Role:      constant.ChatMessageRoleAssistant,
			Content:   constant.GenerationApology,
			Timestamp: time.Now(),
		})
		return err
	}

	state.messages = append(state.messages, &dto.ChatMessageDTO{
		Id:        res.AiMessageId,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   res.Content,
		Timestamp: time.Now(),
	})
	state.info.UpdatedAt = time.Now()
	c.moveToFront(sessionKey)
	return nil
}

// FetchOlderMessages loads the next older page and prepends it. It is
// a no-op unless the transcript is ready, older messages exist, and no
// other page fetch is in flight.
func (c *Controller) FetchOlderMessages(ctx context.Context, sessionKey string) error {
	c.mu.Lock()
	state, ok := c.states[sessionKey]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownSession
	}
	if state.status != StatusReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if !state.hasOlderMessages || state.fetchingOlderPage {
		c.mu.Unlock()
		return nil
	}
	state.fetchingOlderPage = true
	cursor := state.cursor
	c.mu.Unlock()

	page, err := c.api.GetMessages(ctx, sessionKey, c.pageSize, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	state.fetchingOlderPage = false
	if err != nil {
		return err
	}

	state.messages = append(append([]*dto.ChatMessageDTO(nil), page.Messages...), state.messages...)
	state.cursor = page.NextCursor
	state.hasOlderMessages = page.HasNextPage
	return nil
}

// CreateSession registers a fresh session and puts it first in the
// list. The new transcript is empty, so it is immediately ready.
func (c *Controller) CreateSession(ctx context.Context, title string) (string, error) {
	created, err := c.api.CreateSession(ctx, &dto.CreateSessionRequest{
		SessionId: uuid.NewString(),
		Title:     title,
	})
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[created.SessionId] = &sessionState{
		info:   created,
		status: StatusReady,
	}
	c.order = append([]string{created.SessionId}, c.order...)
	return created.SessionId, nil
}

func (c *Controller) RenameSession(ctx context.Context, sessionKey, title string) error {
	updated, err := c.api.UpdateSessionTitle(ctx, sessionKey, title)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[sessionKey]
	if !ok {
		return ErrUnknownSession
	}
	state.info.Title = updated.Title
	state.info.UpdatedAt = updated.UpdatedAt
	c.moveToFront(sessionKey)
	return nil
}

func (c *Controller) SetSessionActivity(ctx context.Context, sessionKey string, isActive bool) error {
	updated, err := c.api.UpdateSessionActivity(ctx, sessionKey, isActive)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[sessionKey]
	if !ok {
		return ErrUnknownSession
	}
	state.info.IsActive = updated.IsActive
	state.info.UpdatedAt = updated.UpdatedAt
	return nil
}

func (c *Controller) DeleteSession(ctx context.Context, sessionKey string) error {
	if _, err := c.api.DeleteSession(ctx, sessionKey); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sessionKey)
	for i, key := range c.order {
		if key == sessionKey {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Controller) ClearAllSessions(ctx context.Context) (int64, error) {
	res, err := c.api.ClearAllSessions(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.states = make(map[string]*sessionState)
	return res.DeletedCount, nil
}

func (c *Controller) SessionCount(ctx context.Context) (int64, error) {
	res, err := c.api.GetSessionCount(ctx)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// moveToFront must be called with the lock held.
func (c *Controller) moveToFront(sessionKey string) {
	for i, key := range c.order {
		if key == sessionKey {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append([]string{sessionKey}, c.order...)
}
