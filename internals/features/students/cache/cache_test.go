package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectra_backend/internals/features/students/dto"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	key := TokenKey("attendance", "tok")

	var got dto.AttendanceSummary
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := dto.AttendanceSummary{
		SessionsByDay:     []dto.DayRecord{{Sessions: []dto.SessionMark{dto.SessionPresent}}},
		OverallPercentage: 91.2,
	}
	require.NoError(t, c.Set(ctx, key, want))

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestTokenKey(t *testing.T) {
	k := TokenKey("profile:4135", "secret-token")
	assert.NotContains(t, k, "secret-token")
	assert.Equal(t, k, TokenKey("profile:4135", "secret-token"))
	assert.NotEqual(t, k, TokenKey("profile:4135", "other"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	hit, err := c.Get(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(context.Background(), "k", 1))
}

func TestDialRedisCache(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	mr := miniredis.RunT(t)
	c, err := DialRedisCache(ctx, "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = DialRedisCache(ctx, "not a url", time.Minute)
	assert.Error(t, err)

	down := miniredis.NewMiniRedis()
	require.NoError(t, down.Start())
	addr := down.Addr()
	down.Close()

	_, err = DialRedisCache(ctx, "redis://"+addr, time.Minute)
	assert.ErrorContains(t, err, "ping redis")
}
