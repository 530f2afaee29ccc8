package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	callerA = "3f2b1c4d-aaaa-4bbb-8ccc-111111111111"
	callerB = "9e8d7c6b-aaaa-4bbb-8ccc-222222222222"
	// callerC shares the first UUID group with callerA.
	callerC = "3f2b1c4d-dddd-4eee-8fff-333333333333"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tickets_"+callerA+"-1-10", Key(EntityTickets, callerA, 1, 10, false))
	assert.Equal(t, "tickets_"+callerA+"-2-25_deleted", Key(EntityTickets, callerA, 2, 25, true))
	assert.NotEqual(t, Key(EntityTickets, callerA, 1, 10, false), Key(EntityTickets, callerC, 1, 10, false))
	assert.Equal(t, "roles_plain-1-10", Key(EntityRoles, "plain", 1, 10, false))
}

func TestRememberHitSkipsLoader(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	key := Key(EntityPriorities, callerA, 1, 10, false)

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Alta", "Baja"}, nil
	}

	first, err := Remember(ctx, store, zap.NewNop(), key, time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, store, zap.NewNop(), key, time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRememberLoaderErrorNotCached(t *testing.T) {
	store, mr := newTestStore(t)
	key := Key(EntityUsers, callerA, 1, 10, false)

	_, err := Remember(context.Background(), store, zap.NewNop(), key, time.Minute,
		func(context.Context) (int, error) { return 0, errors.New("db down") })
	require.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestRememberFallsBackWhenRedisUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	got, err := Remember(context.Background(), store, zap.NewNop(), "k", time.Minute,
		func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestRememberWithoutStore(t *testing.T) {
	got, err := Remember[int](context.Background(), nil, zap.NewNop(), "k", time.Minute,
		func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInvalidateEntityDropsAllCallers(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	keys := []string{
		Key(EntityTickets, callerA, 1, 10, false),
		Key(EntityTickets, callerA, 2, 10, true),
		Key(EntityTickets, callerB, 1, 10, false),
	}
	for _, k := range keys {
		require.NoError(t, store.Set(ctx, k, []byte("[]"), time.Minute))
	}
	other := Key(EntityPriorities, callerA, 1, 10, false)
	require.NoError(t, store.Set(ctx, other, []byte("[]"), time.Minute))

	require.NoError(t, store.InvalidateEntity(ctx, EntityTickets))

	for _, k := range keys {
		assert.False(t, mr.Exists(k), k)
	}
	assert.True(t, mr.Exists(other))
}

func TestInvalidateCallerKeepsOtherCallers(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mine := Key(EntityTickets, callerA, 1, 10, false)
	theirs := Key(EntityTickets, callerB, 1, 10, false)
	lookalike := Key(EntityTickets, callerC, 1, 10, false)
	for _, k := range []string{mine, theirs, lookalike} {
		require.NoError(t, store.Set(ctx, k, []byte("[]"), time.Minute))
	}

	require.NoError(t, store.InvalidateCaller(ctx, EntityTickets, callerA))
	assert.False(t, mr.Exists(mine))
	assert.True(t, mr.Exists(theirs))
	assert.True(t, mr.Exists(lookalike))
}

func TestInvalidateManyKeys(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	for page := 1; page <= scanBatch+15; page++ {
		require.NoError(t, store.Set(ctx, Key(EntityCategories, callerA, page, 10, false), []byte("[]"), time.Minute))
	}
	require.NoError(t, store.InvalidateEntity(ctx, EntityCategories))
	assert.Empty(t, mr.Keys())
}

func TestGetMiss(t *testing.T) {
	store, _ := newTestStore(t)
	_, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
