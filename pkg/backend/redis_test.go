package backend

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMiniRedis starts an in-process Redis server and returns a backend
// connected to it.
func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedis(client)
}

func TestNewRedis_NilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewRedis(nil) })
}

func TestRedis_SetAndGet(t *testing.T) {
	_, b := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "viewcache:abc", []byte("payload"), time.Minute))

	got, err := b.Get(ctx, "viewcache:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestRedis_Miss(t *testing.T) {
	_, b := setupMiniRedis(t)

	_, err := b.Get(context.Background(), "viewcache:absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedis_TTL(t *testing.T) {
	mr, b := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "viewcache:abc", []byte("payload"), time.Minute))
	assert.InDelta(t, time.Minute, mr.TTL("viewcache:abc"), float64(time.Second))

	mr.FastForward(2 * time.Minute)

	_, err := b.Get(ctx, "viewcache:abc")
	assert.ErrorIs(t, err, ErrCacheMiss, "entry should expire with its TTL")
}

func TestRedis_ZeroTTLNeverExpires(t *testing.T) {
	mr, b := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "viewcache:abc", []byte("payload"), 0))
	assert.Equal(t, time.Duration(0), mr.TTL("viewcache:abc"), "key must carry no TTL")

	mr.FastForward(24 * time.Hour)

	got, err := b.Get(ctx, "viewcache:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestRedis_ConnectionErrorPropagates(t *testing.T) {
	mr, b := setupMiniRedis(t)
	mr.Close()

	ctx := context.Background()

	_, err := b.Get(ctx, "viewcache:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss, "connection errors must not look like misses")

	assert.Error(t, b.Set(ctx, "viewcache:abc", []byte("payload"), time.Minute))
}
