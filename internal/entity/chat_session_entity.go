package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id         uuid.UUID
	Title      string
	ClientId   uuid.UUID
	SessionKey string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	IsActive   bool

	// Messages holds the most recent preview window in chronological
	// order. Populated only by reads that request it.
	Messages []*ChatMessage
}
