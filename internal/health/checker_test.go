package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type staticCheck struct {
	err error
}

func (s staticCheck) HealthCheck(context.Context) error { return s.err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_AllHealthy(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("database", staticCheck{})
	checker.AddCheck("redis", staticCheck{})

	results := checker.Check(context.Background())
	require.Equal(t, map[string]string{"database": "OK", "redis": "OK"}, results)
}

func TestChecker_HandlerReports503OnFailure(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("database", staticCheck{})
	checker.AddCheck("redis", staticCheck{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	checker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "OK", body["database"])
	require.Equal(t, "connection refused", body["redis"])
}

func TestChecker_HandlerReports200WhenHealthy(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("database", staticCheck{})

	rec := httptest.NewRecorder()
	checker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, NewRedisChecker(client).HealthCheck(context.Background()))

	mr.Close()
	require.Error(t, NewRedisChecker(client).HealthCheck(context.Background()))
}

func TestTelegramChecker_UninitializedBotFails(t *testing.T) {
	require.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
}
