package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *CounterStore {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCounterStore(client)
}

func TestCounterStore_BumpReturnsPrevious(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	prev, err := s.Bump(ctx, "visits:fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), prev)

	prev, err = s.Bump(ctx, "visits:fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), prev)
}

func TestCounterStore_KeysAreIsolated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Bump(ctx, "visits:fp1")
	require.NoError(t, err)

	prev, err := s.Bump(ctx, "sessions:fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), prev)
}

func TestCounterStore_ErrorWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	s := NewCounterStore(client)
	_, err = s.Bump(context.Background(), "visits:fp1")
	assert.Error(t, err)
}
