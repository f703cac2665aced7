package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	l, err := NewFixedWindowLimiter(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test", limit, time.Minute)
	require.NoError(t, err)
	return l, mr
}

func TestFixedWindowLimiter(t *testing.T) {
	ctx := context.Background()
	l, _ := newLimiter(t, 2)

	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	assert.False(t, l.Allow(ctx, "10.0.0.1"))
	assert.True(t, l.Allow(ctx, "10.0.0.2"))
}

func TestFixedWindowLimiter_NextWindow(t *testing.T) {
	ctx := context.Background()
	l, _ := newLimiter(t, 1)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	assert.True(t, l.Allow(ctx, "ip"))
	assert.False(t, l.Allow(ctx, "ip"))

	l.now = func() time.Time { return base.Add(time.Minute) }
	assert.True(t, l.Allow(ctx, "ip"))
}

func TestFixedWindowLimiter_FailsClosed(t *testing.T) {
	l, mr := newLimiter(t, 5)
	mr.Close()
	assert.False(t, l.Allow(context.Background(), "ip"))
}

func TestNewFixedWindowLimiter_Validation(t *testing.T) {
	_, err := NewFixedWindowLimiter(nil, "x", 1, time.Second)
	assert.Error(t, err)
	_, err = NewFixedWindowLimiter(redis.NewClient(&redis.Options{}), "x", 0, time.Second)
	assert.Error(t, err)
	assert.True(t, Unlimited{}.Allow(context.Background(), "anything"))
}
