package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionKey    string    `gorm:"column:session_id;type:varchar(255);not null;index"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role          string    `gorm:"type:varchar(16);not null"` // "user" or "assistant"
	Content       string    `gorm:"type:text;not null"`
	Timestamp     time.Time `gorm:"column:timestamp;not null;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
