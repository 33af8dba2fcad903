package quota

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// fakeQuotaStore replays the counter semantics the limiter relies on.
type fakeQuotaStore struct {
	counts map[string]int
	expiry map[string]time.Time
	getErr error
}

func newFakeQuotaStore() *fakeQuotaStore {
	return &fakeQuotaStore{
		counts: make(map[string]int),
		expiry: make(map[string]time.Time),
	}
}

func (s *fakeQuotaStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.counts[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.Itoa(v), nil)
}

func (s *fakeQuotaStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	s.counts[key]++
	return redis.NewIntResult(int64(s.counts[key]), nil)
}

func (s *fakeQuotaStore) ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd {
	s.expiry[key] = tm
	return redis.NewBoolResult(true, nil)
}

func TestLimiterDisabledByZeroLimit(t *testing.T) {
	l := NewLimiter(nil, 0)

	err := l.Check(context.Background(), uuid.New())
	assert.NoError(t, err)

	// must not panic without a Redis client
	l.Increment(context.Background(), uuid.New())
}

func TestLimiterAllowsWithoutRedis(t *testing.T) {
	// limit set but no client wired: enforcement degrades to allow
	l := NewLimiter(nil, 5)

	err := l.Check(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestExceededError(t *testing.T) {
	reset := time.Now().Add(3 * time.Hour)
	err := &ExceededError{Limit: 100, Used: 100, ResetAfter: reset}

	assert.Equal(t, "daily AI usage limit exceeded", err.Error())
	assert.Equal(t, 100, err.Limit)
	assert.Equal(t, reset, err.ResetAfter)
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	store := newFakeQuotaStore()
	l := NewLimiter(store, 3)
	clientId := uuid.New()

	l.Increment(context.Background(), clientId)
	l.Increment(context.Background(), clientId)

	assert.NoError(t, l.Check(context.Background(), clientId))
}

func TestLimiterRejectsAtLimit(t *testing.T) {
	store := newFakeQuotaStore()
	l := NewLimiter(store, 2)
	clientId := uuid.New()

	l.Increment(context.Background(), clientId)
	l.Increment(context.Background(), clientId)

	err := l.Check(context.Background(), clientId)
	var exceeded *ExceededError
	assert.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 2, exceeded.Limit)
	assert.Equal(t, 2, exceeded.Used)
	assert.Equal(t, resetTime(time.Now()), exceeded.ResetAfter)

	// another client's allowance is untouched
	assert.NoError(t, l.Check(context.Background(), uuid.New()))
}

func TestLimiterDegradesToAllowOnStoreError(t *testing.T) {
	store := newFakeQuotaStore()
	store.counts[NewLimiter(store, 1).key(uuid.Nil, time.Now())] = 99
	store.getErr = errors.New("connection refused")
	l := NewLimiter(store, 1)

	assert.NoError(t, l.Check(context.Background(), uuid.Nil))
}

func TestIncrementSetsExpiryAtNextUTCMidnight(t *testing.T) {
	store := newFakeQuotaStore()
	l := NewLimiter(store, 5)
	clientId := uuid.New()

	now := time.Now()
	l.Increment(context.Background(), clientId)

	assert.Equal(t, resetTime(now), store.expiry[l.key(clientId, now)])
}

func TestQuotaKeyRollsOverByDay(t *testing.T) {
	l := NewLimiter(nil, 1)
	clientId := uuid.New()

	day1 := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	assert.NotEqual(t, l.key(clientId, day1), l.key(clientId, day2))
	assert.Equal(t, l.key(clientId, day1), l.key(clientId, day1.Add(-time.Hour)))
}

func TestResetTimeIsNextUTCMidnight(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), resetTime(now))
}
