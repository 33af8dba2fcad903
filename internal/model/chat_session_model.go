package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title      string    `gorm:"type:varchar(255);not null"`
	ClientId   uuid.UUID `gorm:"type:uuid;not null;index"` // Ownership boundary: one id per browser profile
	SessionKey string    `gorm:"column:session_id;type:varchar(255);not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
	IsActive   bool      `gorm:"not null;default:true"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
