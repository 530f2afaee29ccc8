package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Cache namespaces, one per list endpoint.
const (
	EntityTickets    = "tickets"
	EntityUsers      = "users"
	EntityRoles      = "roles"
	EntityCategories = "categories"
	EntityPriorities = "priorities"
)

// Store is the cache backend used by list endpoints.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidateEntity drops every cached page of the entity for all callers.
	InvalidateEntity(ctx context.Context, entity string) error
	// InvalidateCaller drops every cached page of the entity for one caller.
	InvalidateCaller(ctx context.Context, entity, callerID string) error
}

// Key builds `{entity}_{callerID}-{page}-{limit}[_deleted]`. The whole caller
// id is used: ticket pages are scoped per creator and must never be shared.
func Key(entity, callerID string, page, limit int, deleted bool) string {
	var b strings.Builder
	b.WriteString(entity)
	b.WriteByte('_')
	b.WriteString(callerID)
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(page))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(limit))
	if deleted {
		b.WriteString("_deleted")
	}
	return b.String()
}

func entityPattern(entity string) string {
	return entity + "_*"
}

func callerPattern(entity, callerID string) string {
	return entity + "_" + callerID + "-*"
}

// Remember is cache-aside: a hit is returned without calling load; a miss
// calls load and stores the result. Backend failures are logged and fall
// through to load so the cache never fails a read.
func Remember[T any](ctx context.Context, store Store, logger *zap.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return load(ctx)
	}

	raw, ok, err := store.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Warn("cache entry undecodable", zap.String("key", key))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// NopStore disables caching.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopStore) InvalidateEntity(context.Context, string) error           { return nil }
func (NopStore) InvalidateCaller(context.Context, string, string) error   { return nil }
