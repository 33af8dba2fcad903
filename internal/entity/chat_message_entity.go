package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	SessionKey    string
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Timestamp     time.Time
}
