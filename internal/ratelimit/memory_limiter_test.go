package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryLimiter_AllowsWithinLimit(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "user:1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestMemoryLimiter_BlocksWhenExceeded(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Check(ctx, "user:2", 2, time.Minute)
		assert.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := limiter.Check(ctx, "user:2", 2, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:3", 1, time.Minute)
	assert.NoError(t, err)

	_, err = limiter.Check(ctx, "user:3", 1, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	result, err := limiter.Check(ctx, "user:4", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiter_SlidingWindow(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Check(ctx, "user:5", 2, 200*time.Millisecond)
		assert.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	time.Sleep(250 * time.Millisecond)

	result, err := limiter.Check(ctx, "user:5", 2, 200*time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:6", 5, time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	limiter.Cleanup(time.Millisecond)

	limiter.mu.Lock()
	_, exists := limiter.buckets["user:6"]
	limiter.mu.Unlock()
	assert.False(t, exists)
}

func TestParseRuleErrors(t *testing.T) {
	rules := NewRules(configWithWindow(""))
	_, _, err := rules.GetPerUserLimit()
	assert.Error(t, err)

	rules = NewRules(configWithWindow("not-a-duration"))
	_, _, err = rules.GetPerUserLimit()
	assert.Error(t, err)

	rules = NewRules(configWithWindow("1m"))
	limit, window, err := rules.GetPerUserLimit()
	assert.NoError(t, err)
	assert.Equal(t, 10, limit)
	assert.Equal(t, time.Minute, window)

	if errors.Is(err, ErrLimitExceeded) {
		t.Fatal("parse errors must not collide with limiter errors")
	}
}
