package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb), mr
}

func TestSessionStore_CreateLookupDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Create(ctx, "sid-1", "user-1", time.Hour))
	assert.Equal(t, "user-1", mr.HGet("blog:session:sid-1", "user_id"))
	assert.Equal(t, time.Hour, mr.TTL("blog:session:sid-1"))

	uid, ok, err := s.Lookup(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", uid)

	require.NoError(t, s.Delete(ctx, "sid-1"))
	_, ok, err = s.Lookup(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Create(ctx, "short", "user-1", time.Minute))
	require.NoError(t, s.Create(ctx, "forever", "user-2", 0))
	assert.Equal(t, time.Duration(0), mr.TTL("blog:session:forever"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Lookup(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)

	uid, ok, err := s.Lookup(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-2", uid)
}

func TestSessionStore_LookupUnknown(t *testing.T) {
	s, _ := newStore(t)
	_, ok, err := s.Lookup(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_ConnectionError(t *testing.T) {
	s, mr := newStore(t)
	mr.Close()
	_, _, err := s.Lookup(context.Background(), "sid")
	assert.Error(t, err)
}
