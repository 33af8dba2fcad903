package dto

import "time"

// SessionEventEnvelope is the wire form of session events on the pubsub bus.
type SessionEventEnvelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
