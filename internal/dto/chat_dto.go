package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Id        uuid.UUID `json:"id"`
	ClientId  uuid.UUID `json:"client_id" validate:"required"`
	SessionId string    `json:"session_id" validate:"required,max=255"`
	Role      string    `json:"role" validate:"required,oneof=user assistant"`
	Content   string    `json:"content" validate:"required,min=1"`
	Timestamp time.Time `json:"timestamp"`
}

type SendMessageResponse struct {
	Content       string    `json:"content"`
	UserMessageId uuid.UUID `json:"user_message_id"`
	AiMessageId   uuid.UUID `json:"ai_message_id"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type GetPaginatedMessagesRequest struct {
	SessionId string     `json:"session_id" validate:"required"`
	Limit     int        `json:"limit" validate:"omitempty,min=1,max=100"`
	Cursor    *uuid.UUID `json:"cursor,omitempty"`
}

type GetPaginatedMessagesResponse struct {
	Messages    []*ChatMessageDTO `json:"messages"`
	NextCursor  *uuid.UUID        `json:"next_cursor"`
	HasNextPage bool              `json:"has_next_page"`
}

type SessionResponse struct {
	Id        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	ClientId  uuid.UUID         `json:"client_id"`
	SessionId string            `json:"session_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	IsActive  bool              `json:"is_active"`
	Messages  []*ChatMessageDTO `json:"messages"`
}

type CreateSessionRequest struct {
	ClientId  uuid.UUID `json:"client_id" validate:"required"`
	SessionId string    `json:"session_id" validate:"required,max=255"`
	Title     string    `json:"title" validate:"required,min=1,max=255"`
}

type UpdateSessionTitleRequest struct {
	SessionId string `json:"session_id"`
	Title     string `json:"title" validate:"required,min=1,max=255"`
}

type UpdateSessionActivityRequest struct {
	SessionId string `json:"session_id"`
	IsActive  *bool  `json:"is_active" validate:"required"`
}

type DeleteSessionResponse struct {
	Success   bool   `json:"success"`
	SessionId string `json:"session_id"`
}

type SessionCountResponse struct {
	Count int64 `json:"count"`
}

type ClearAllSessionsResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deleted_count"`
}
