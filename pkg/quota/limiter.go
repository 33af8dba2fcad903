package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ExceededError carries usage details for the 429 payload.
type ExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *ExceededError) Error() string {
	return "daily AI usage limit exceeded"
}

// Store is the slice of redis.Cmdable the limiter touches.
// *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
}

// Limiter counts generation calls per client per UTC day in Redis.
// A zero or negative limit disables enforcement. Redis being down never
// blocks a send: Check degrades to allow.
type Limiter struct {
	rdb   Store
	limit int
}

func NewLimiter(rdb Store, dailyLimit int) *Limiter {
	return &Limiter{
		rdb:   rdb,
		limit: dailyLimit,
	}
}

func (l *Limiter) key(clientId uuid.UUID, now time.Time) string {
	return fmt.Sprintf("quota:%s:%s", clientId, now.UTC().Format("2006-01-02"))
}

func resetTime(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// Check returns an *ExceededError once the client has used up today's
// allowance. Any Redis failure is treated as allowance.
func (l *Limiter) Check(ctx context.Context, clientId uuid.UUID) error {
	if l.limit <= 0 || l.rdb == nil {
		return nil
	}

	now := time.Now()
	used, err := l.rdb.Get(ctx, l.key(clientId, now)).Int()
	if err != nil && err != redis.Nil {
		return nil
	}

	if used >= l.limit {
		return &ExceededError{
			Limit:      l.limit,
			Used:       used,
			ResetAfter: resetTime(now),
		}
	}
	return nil
}

// Increment records one generation call. Best effort.
func (l *Limiter) Increment(ctx context.Context, clientId uuid.UUID) {
	if l.limit <= 0 || l.rdb == nil {
		return
	}

	now := time.Now()
	key := l.key(clientId, now)
	if err := l.rdb.Incr(ctx, key).Err(); err != nil {
		return
	}
	l.rdb.ExpireAt(ctx, key, resetTime(now))
}
