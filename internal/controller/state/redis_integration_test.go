//go:build integration

package state

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	store := NewRedisStore(rdb, time.Minute)
	storeContract(t, store)

	require.NoError(t, store.SetState(context.Background(), 7, StateUpdateNameLat))
	ttl, err := rdb.TTL(context.Background(), store.key(7)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.NoError(t, store.ClearState(context.Background(), 7))
}
