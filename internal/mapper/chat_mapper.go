package mapper

import (
	"ai-career-counselor-be/internal/entity"
	"ai-career-counselor-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	return &entity.ChatSession{
		Id:         s.Id,
		Title:      s.Title,
		ClientId:   s.ClientId,
		SessionKey: s.SessionKey,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		IsActive:   s.IsActive,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:         s.Id,
		Title:      s.Title,
		ClientId:   s.ClientId,
		SessionKey: s.SessionKey,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		IsActive:   s.IsActive,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		SessionKey:    msg.SessionKey,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Timestamp:     msg.Timestamp,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		SessionKey:    msg.SessionKey,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Timestamp:     msg.Timestamp,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(models []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(models))
	for i, msg := range models {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}
