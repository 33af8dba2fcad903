package service

import (
	"context"
	"strings"
	"time"

	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/dto"
	"ai-career-counselor-be/internal/entity"
	"ai-career-counselor-be/internal/pkg/logger"
	"ai-career-counselor-be/internal/pkg/serverutils"
	"ai-career-counselor-be/internal/repository/memory"
	"ai-career-counselor-be/internal/repository/specification"
	"ai-career-counselor-be/internal/repository/unitofwork"
	"ai-career-counselor-be/pkg/counselor"
	"ai-career-counselor-be/pkg/events"
	"ai-career-counselor-be/pkg/quota"

	"github.com/google/uuid"
)

type IConversationService interface {
	SendMessage(ctx context.Context, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetPaginatedMessages(ctx context.Context, clientId uuid.UUID, request *dto.GetPaginatedMessagesRequest) (*dto.GetPaginatedMessagesResponse, error)
	GetSessions(ctx context.Context, clientId uuid.UUID) ([]*dto.SessionResponse, error)
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, clientId uuid.UUID, sessionKey string) (*dto.DeleteSessionResponse, error)
	UpdateSessionTitle(ctx context.Context, clientId uuid.UUID, request *dto.UpdateSessionTitleRequest) (*dto.SessionResponse, error)
	UpdateSessionActivity(ctx context.Context, clientId uuid.UUID, request *dto.UpdateSessionActivityRequest) (*dto.SessionResponse, error)
	GetSessionCount(ctx context.Context, clientId uuid.UUID) (*dto.SessionCountResponse, error)
	ClearAllSessions(ctx context.Context, clientId uuid.UUID) (*dto.ClearAllSessionsResponse, error)
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	generator        *counselor.Generator
	limiter          *quota.Limiter
	previews         *memory.SessionPreviewCache
	publisherService IPublisherService
	log              logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	generator *counselor.Generator,
	limiter *quota.Limiter,
	previews *memory.SessionPreviewCache,
	publisherService IPublisherService,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		generator:        generator,
		limiter:          limiter,
		previews:         previews,
		publisherService: publisherService,
		log:              log,
	}
}

// SendMessage persists the user's message, generates the counselor reply
// and persists it as the assistant turn. The two writes are deliberately
// not wrapped in a transaction: a crash between them leaves a user
// message without a reply, which the client resolves on its next fetch.
// Generation failures never fail the call; the apology text is persisted
// as a normal assistant message instead.
func (cs *conversationService) SendMessage(ctx context.Context, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	content := strings.TrimSpace(request.Content)
	if content == "" {
		return nil, serverutils.NewValidationError("message content cannot be empty")
	}

	if err := cs.limiter.Check(ctx, request.ClientId); err != nil {
		return nil, err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: request.SessionId},
		specification.ByClientID{ClientID: request.ClientId},
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if session == nil {
		session = &entity.ChatSession{
			Id:         uuid.New(),
			Title:      counselor.GenerateSessionTitle(content),
			ClientId:   request.ClientId,
			SessionKey: request.SessionId,
			CreatedAt:  now,
			UpdatedAt:  now,
			IsActive:   true,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}

	userMessage := &entity.ChatMessage{
		Id:            request.Id,
		SessionKey:    session.SessionKey,
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       content,
		Timestamp:     request.Timestamp,
	}
	if userMessage.Id == uuid.Nil {
		userMessage.Id = uuid.New()
	}
	if userMessage.Timestamp.IsZero() {
		userMessage.Timestamp = now
	} else {
		// A client clock running behind the last reply would misplace
		// the new turn inside the context window, so clamp it past the
		// session's newest message.
		newest, err := uow.ChatMessageRepository().FindOne(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.OrderByTimestamp{Desc: true},
		)
		if err != nil {
			return nil, err
		}
		if newest != nil && !userMessage.Timestamp.After(newest.Timestamp) {
			userMessage.Timestamp = newest.Timestamp.Add(time.Millisecond)
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderByTimestamp{Desc: true},
		specification.Limit{N: constant.ContextWindowSize},
	)
	if err != nil {
		return nil, err
	}
	reverseMessages(recent)

	var reply string
	if len(recent) <= 1 {
		reply = cs.generator.GenerateResponse(ctx, content)
	} else {
		history := make([]counselor.Turn, len(recent))
		for i, msg := range recent {
			history[i] = counselor.Turn{Role: msg.Role, Content: msg.Content}
		}
		reply = cs.generator.GenerateContextualResponse(ctx, content, history)
	}

	aiMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		SessionKey:    session.SessionKey,
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       reply,
		Timestamp:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMessage); err != nil {
		return nil, err
	}

	session.UpdatedAt = aiMessage.Timestamp
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	cs.limiter.Increment(ctx, request.ClientId)
	cs.previews.Invalidate(request.ClientId)
	cs.publishEvent(ctx, events.MessageSent, request.ClientId, session.SessionKey)

	return &dto.SendMessageResponse{
		Content:       reply,
		UserMessageId: userMessage.Id,
		AiMessageId:   aiMessage.Id,
	}, nil
}

// GetPaginatedMessages returns one page of a session's transcript in
// chronological order. Pages walk backwards in time: rows are fetched
// newest-first with a one row lookahead past the limit, then reversed.
// The cursor is the id of the oldest message of the previous page; a
// page restricted by it contains only rows before the cursor row in
// (timestamp, id) order.
func (cs *conversationService) GetPaginatedMessages(ctx context.Context, clientId uuid.UUID, request *dto.GetPaginatedMessagesRequest) (*dto.GetPaginatedMessagesResponse, error) {
	limit := request.Limit
	if limit <= 0 {
		limit = constant.DefaultMessageLimit
	}
	if limit > constant.MaxMessageLimit {
		limit = constant.MaxMessageLimit
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: request.SessionId},
		specification.ByClientID{ClientID: clientId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("chat session not found")
	}

	specs := []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderByTimestamp{Desc: true},
		specification.Limit{N: limit + 1},
	}

	if request.Cursor != nil {
		cursorMessage, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: *request.Cursor})
		if err != nil {
			return nil, err
		}
		if cursorMessage == nil || cursorMessage.ChatSessionId != session.Id {
			return nil, serverutils.NewValidationError("unknown pagination cursor")
		}
		specs = append(specs, specification.OlderThanMessage{Timestamp: cursorMessage.Timestamp, ID: cursorMessage.Id})
	}

	rows, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	hasNextPage := len(rows) > limit
	if hasNextPage {
		rows = rows[:limit]
	}

	var nextCursor *uuid.UUID
	if hasNextPage && len(rows) > 0 {
		oldest := rows[len(rows)-1].Id
		nextCursor = &oldest
	}

	reverseMessages(rows)

	return &dto.GetPaginatedMessagesResponse{
		Messages:    messagesToDTOs(rows),
		NextCursor:  nextCursor,
		HasNextPage: hasNextPage,
	}, nil
}

// GetSessions lists the client's sessions newest-activity-first, each
// carrying its recent message preview. Results are served from the
// preview cache until a session event for the client invalidates it.
func (cs *conversationService) GetSessions(ctx context.Context, clientId uuid.UUID) ([]*dto.SessionResponse, error) {
	if cached, found := cs.previews.GetSessions(clientId); found {
		return sessionsToResponses(cached), nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByClientID{ClientID: clientId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	for _, session := range sessions {
		preview, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.OrderByTimestamp{Desc: true},
			specification.Limit{N: constant.ContextWindowSize},
		)
		if err != nil {
			return nil, err
		}
		reverseMessages(preview)
		session.Messages = preview
	}

	cs.previews.SetSessions(clientId, sessions)

	return sessionsToResponses(sessions), nil
}

// CreateSession registers a session ahead of its first message.
// Recreating an existing key is treated as a no-op and returns the
// stored session, so optimistic clients can retry safely.
func (cs *conversationService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: request.SessionId},
		specification.ByClientID{ClientID: request.ClientId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return sessionToResponse(existing), nil
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	now := time.Now()
	session := &entity.ChatSession{
		Id:         uuid.New(),
		Title:      title,
		ClientId:   request.ClientId,
		SessionKey: request.SessionId,
		CreatedAt:  now,
		UpdatedAt:  now,
		IsActive:   true,
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	cs.previews.Invalidate(request.ClientId)
	cs.publishEvent(ctx, events.SessionCreated, request.ClientId, session.SessionKey)

	return sessionToResponse(session), nil
}

// DeleteSession removes a session and its transcript in one
// transaction. Unlike SendMessage, a partial delete would strand
// messages with no owning session, so both deletes commit together.
func (cs *conversationService) DeleteSession(ctx context.Context, clientId uuid.UUID, sessionKey string) (*dto.DeleteSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: sessionKey},
		specification.ByClientID{ClientID: clientId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("chat session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.previews.Invalidate(clientId)
	cs.publishEvent(ctx, events.SessionDeleted, clientId, sessionKey)

	return &dto.DeleteSessionResponse{
		Success:   true,
		SessionId: sessionKey,
	}, nil
}

func (cs *conversationService) UpdateSessionTitle(ctx context.Context, clientId uuid.UUID, request *dto.UpdateSessionTitleRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: request.SessionId},
		specification.ByClientID{ClientID: clientId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("chat session not found")
	}

	session.Title = strings.TrimSpace(request.Title)
	session.UpdatedAt = time.Now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	cs.previews.Invalidate(clientId)
	cs.publishEvent(ctx, events.SessionUpdated, clientId, session.SessionKey)

	return sessionToResponse(session), nil
}

func (cs *conversationService) UpdateSessionActivity(ctx context.Context, clientId uuid.UUID, request *dto.UpdateSessionActivityRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{Key: request.SessionId},
		specification.ByClientID{ClientID: clientId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("chat session not found")
	}

	session.IsActive = *request.IsActive
	session.UpdatedAt = time.Now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	cs.previews.Invalidate(clientId)
	cs.publishEvent(ctx, events.SessionUpdated, clientId, session.SessionKey)

	return sessionToResponse(session), nil
}

// GetSessionCount never fails the caller: a storage error degrades to a
// count of zero so the sidebar badge renders instead of erroring.
func (cs *conversationService) GetSessionCount(ctx context.Context, clientId uuid.UUID) (*dto.SessionCountResponse, error) {
	if cached, found := cs.previews.GetCount(clientId); found {
		return &dto.SessionCountResponse{Count: cached}, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ChatSessionRepository().Count(ctx, specification.ByClientID{ClientID: clientId})
	if err != nil {
		cs.log.Error("ConversationService", "failed to count sessions, degrading to zero", map[string]interface{}{
			"client_id": clientId.String(),
			"error":     err.Error(),
		})
		return &dto.SessionCountResponse{Count: 0}, nil
	}

	cs.previews.SetCount(clientId, count)

	return &dto.SessionCountResponse{Count: count}, nil
}

// ClearAllSessions wipes every session and message for the client in
// one transaction and reports how many sessions were removed.
func (cs *conversationService) ClearAllSessions(ctx context.Context, clientId uuid.UUID) (*dto.ClearAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.ByClientID{ClientID: clientId})
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return &dto.ClearAllSessionsResponse{Success: true, DeletedCount: 0}, nil
	}

	sessionIds := make([]uuid.UUID, len(sessions))
	for i, session := range sessions {
		sessionIds[i] = session.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionIds(ctx, sessionIds); err != nil {
		return nil, err
	}
	deleted, err := uow.ChatSessionRepository().DeleteAllByClientId(ctx, clientId)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.previews.Invalidate(clientId)
	cs.publishEvent(ctx, events.SessionsCleared, clientId, "")

	return &dto.ClearAllSessionsResponse{
		Success:      true,
		DeletedCount: deleted,
	}, nil
}

func (cs *conversationService) publishEvent(ctx context.Context, eventType string, clientId uuid.UUID, sessionKey string) {
	if err := cs.publisherService.Publish(ctx, events.NewSessionEvent(eventType, clientId, sessionKey)); err != nil {
		cs.log.Warn("ConversationService", "failed to publish session event", map[string]interface{}{
			"event_type":  eventType,
			"client_id":   clientId.String(),
			"session_key": sessionKey,
			"error":       err.Error(),
		})
	}
}

func reverseMessages(messages []*entity.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

func messagesToDTOs(messages []*entity.ChatMessage) []*dto.ChatMessageDTO {
	dtos := make([]*dto.ChatMessageDTO, len(messages))
	for i, msg := range messages {
		dtos[i] = &dto.ChatMessageDTO{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return dtos
}

func sessionToResponse(session *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		ClientId:  session.ClientId,
		SessionId: session.SessionKey,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		IsActive:  session.IsActive,
		Messages:  messagesToDTOs(session.Messages),
	}
}

func sessionsToResponses(sessions []*entity.ChatSession) []*dto.SessionResponse {
	responses := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = sessionToResponse(session)
	}
	return responses
}
