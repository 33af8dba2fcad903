package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Session event types emitted by the conversation service.
const (
	SessionCreated  = "SESSION_CREATED"
	SessionUpdated  = "SESSION_UPDATED"
	SessionDeleted  = "SESSION_DELETED"
	SessionsCleared = "SESSIONS_CLEARED"
	MessageSent     = "MESSAGE_SENT"
)

// NewSessionEvent builds an event scoped to a client and, optionally, a session key.
func NewSessionEvent(eventType string, clientId uuid.UUID, sessionKey string) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"client_id":   clientId.String(),
			"session_key": sessionKey,
		},
		OccurredAt: time.Now(),
	}
}
