package memory

import (
	"time"

	"ai-career-counselor-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionPreviewCache keeps per-client session lists (with their recent
// message previews) and session counts out of the hot read path.
// Entries are dropped whenever a session event for the client arrives.
type SessionPreviewCache struct {
	cache *cache.Cache
}

func NewSessionPreviewCache() *SessionPreviewCache {
	// Default expiration of 5 minutes, purge sweep every 10 minutes.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &SessionPreviewCache{
		cache: c,
	}
}

func sessionsKey(clientId uuid.UUID) string {
	return "sessions:" + clientId.String()
}

func countKey(clientId uuid.UUID) string {
	return "count:" + clientId.String()
}

func (r *SessionPreviewCache) GetSessions(clientId uuid.UUID) ([]*entity.ChatSession, bool) {
	if x, found := r.cache.Get(sessionsKey(clientId)); found {
		return x.([]*entity.ChatSession), true
	}
	return nil, false
}

func (r *SessionPreviewCache) SetSessions(clientId uuid.UUID, sessions []*entity.ChatSession) {
	r.cache.Set(sessionsKey(clientId), sessions, cache.DefaultExpiration)
}

func (r *SessionPreviewCache) GetCount(clientId uuid.UUID) (int64, bool) {
	if x, found := r.cache.Get(countKey(clientId)); found {
		return x.(int64), true
	}
	return 0, false
}

func (r *SessionPreviewCache) SetCount(clientId uuid.UUID, count int64) {
	r.cache.Set(countKey(clientId), count, cache.DefaultExpiration)
}

func (r *SessionPreviewCache) Invalidate(clientId uuid.UUID) {
	r.cache.Delete(sessionsKey(clientId))
	r.cache.Delete(countKey(clientId))
}
