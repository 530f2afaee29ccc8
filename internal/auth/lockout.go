package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FailureCounter tracks consecutive failed logins per email.
type FailureCounter interface {
	// Increment records a failure and returns the new count.
	Increment(ctx context.Context, email string) (int, error)
	Reset(ctx context.Context, email string) error
}

// MemoryFailureCounter keeps counts in process memory; restarts clear them.
type MemoryFailureCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryFailureCounter returns an empty counter.
func NewMemoryFailureCounter() *MemoryFailureCounter {
	return &MemoryFailureCounter{counts: make(map[string]int)}
}

func (m *MemoryFailureCounter) Increment(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[email]++
	return m.counts[email], nil
}

func (m *MemoryFailureCounter) Reset(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, email)
	return nil
}

const failureKeyPrefix = "login_failures:"

// RedisFailureCounter shares counts across instances. Each count expires
// after window without further failures.
type RedisFailureCounter struct {
	client redis.UniversalClient
	window time.Duration
}

// NewRedisFailureCounter wraps a go-redis client.
func NewRedisFailureCounter(client redis.UniversalClient, window time.Duration) *RedisFailureCounter {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RedisFailureCounter{client: client, window: window}
}

func (r *RedisFailureCounter) Increment(ctx context.Context, email string) (int, error) {
	key := failureKeyPrefix + email
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (r *RedisFailureCounter) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, failureKeyPrefix+email).Err()
}
