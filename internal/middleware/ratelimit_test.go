package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/ratelimit"
	"github.com/Proton-105/zametka-bot/pkg/config"
)

type fakeContext struct {
	telebot.Context

	sender *telebot.User
	update telebot.Update
	sent   []string
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }

func (f *fakeContext) Update() telebot.Update { return f.update }

func (f *fakeContext) Text() string { return "text" }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rateLimitConfig(limit int, whitelist ...int64) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:   true,
		PerUser:   config.RateLimitRule{Limit: limit, Window: "1m"},
		Whitelist: whitelist,
	}
}

func countingHandler(calls *int) telebot.HandlerFunc {
	return func(telebot.Context) error {
		*calls++
		return nil
	}
}

func TestRateLimitMiddleware_BlocksAboveLimit(t *testing.T) {
	mw := NewRateLimitMiddleware(
		ratelimit.NewMemoryLimiter(testLogger()),
		ratelimit.NewRules(rateLimitConfig(2)),
		testLogger(),
	)

	calls := 0
	handler := mw.Handle(countingHandler(&calls))
	c := &fakeContext{sender: &telebot.User{ID: 1}}

	for i := 0; i < 3; i++ {
		require.NoError(t, handler(c))
	}

	require.Equal(t, 2, calls)
	// The third update got a throttle notice instead of a handler run.
	require.Len(t, c.sent, 1)
}

func TestRateLimitMiddleware_WhitelistBypasses(t *testing.T) {
	mw := NewRateLimitMiddleware(
		ratelimit.NewMemoryLimiter(testLogger()),
		ratelimit.NewRules(rateLimitConfig(1, 99)),
		testLogger(),
	)

	calls := 0
	handler := mw.Handle(countingHandler(&calls))
	c := &fakeContext{sender: &telebot.User{ID: 99}}

	for i := 0; i < 5; i++ {
		require.NoError(t, handler(c))
	}

	require.Equal(t, 5, calls)
	require.Empty(t, c.sent)
}

func TestRateLimitMiddleware_MisconfiguredRuleFailsOpen(t *testing.T) {
	mw := NewRateLimitMiddleware(
		ratelimit.NewMemoryLimiter(testLogger()),
		ratelimit.NewRules(config.RateLimitConfig{PerUser: config.RateLimitRule{Limit: 1}}),
		testLogger(),
	)

	calls := 0
	handler := mw.Handle(countingHandler(&calls))
	c := &fakeContext{sender: &telebot.User{ID: 2}}

	for i := 0; i < 3; i++ {
		require.NoError(t, handler(c))
	}

	require.Equal(t, 3, calls)
}

func TestRateLimitMiddleware_UsersAreIndependent(t *testing.T) {
	mw := NewRateLimitMiddleware(
		ratelimit.NewMemoryLimiter(testLogger()),
		ratelimit.NewRules(rateLimitConfig(1)),
		testLogger(),
	)

	calls := 0
	handler := mw.Handle(countingHandler(&calls))

	require.NoError(t, handler(&fakeContext{sender: &telebot.User{ID: 3}}))
	require.NoError(t, handler(&fakeContext{sender: &telebot.User{ID: 4}}))

	require.Equal(t, 2, calls)
}
