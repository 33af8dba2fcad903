package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionKey filters by the stable external session handle
// (the session_id column, distinct from the row id).
type BySessionKey struct {
	Key string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.Key)
}

// ByClientID scopes rows to the owning browser client
type ByClientID struct {
	ClientID uuid.UUID
}

func (s ByClientID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_id = ?", s.ClientID)
}

// ByChatSessionID filters messages by their session row id
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// OlderThanMessage restricts messages to those strictly before the
// cursor message in (timestamp, id) order. Used by cursor pagination;
// the tie-break must match OrderByTimestamp so a page boundary falling
// between equal-timestamp rows loses no sibling.
type OlderThanMessage struct {
	Timestamp time.Time
	ID        uuid.UUID
}

func (s OlderThanMessage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("timestamp < ? OR (timestamp = ? AND id < ?)", s.Timestamp, s.Timestamp, s.ID)
}

// OrderByTimestamp orders messages by their timestamp, tie-broken by id
// so page boundaries stay deterministic.
type OrderByTimestamp struct {
	Desc bool
}

func (s OrderByTimestamp) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Order("timestamp DESC, id DESC")
	}
	return db.Order("timestamp ASC, id ASC")
}
