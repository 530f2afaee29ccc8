package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisStore keeps cached list pages in Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) InvalidateEntity(ctx context.Context, entity string) error {
	return s.deleteMatching(ctx, entityPattern(entity))
}

func (s *RedisStore) InvalidateCaller(ctx context.Context, entity, callerID string) error {
	return s.deleteMatching(ctx, callerPattern(entity, callerID))
}

// deleteMatching removes every key matching pattern, scanning incrementally.
func (s *RedisStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}
