// Package idempotency suppresses duplicate Telegram updates. Long polling
// can redeliver an update after a crash-restart inside the ack window, and
// handlers like note capture are not safe to replay.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPattern = "update_seen:%d"

// Guard records which update identifiers have already been handled.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewGuard constructs a Guard. A nil client disables deduplication.
func NewGuard(client *redis.Client, ttl time.Duration, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Guard{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// FirstSeen marks the update as handled and reports whether this is the
// first delivery. Redis outages fail open: a duplicate reply is less harmful
// than a dropped note.
func (g *Guard) FirstSeen(ctx context.Context, updateID int) bool {
	if g == nil || g.client == nil {
		return true
	}

	key := fmt.Sprintf(keyPattern, updateID)

	first, err := g.client.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		g.log.Error("idempotency check failed, handling update anyway",
			slog.Int("update_id", updateID),
			slog.Any("error", err),
		)
		return true
	}

	if !first {
		g.log.Info("duplicate update suppressed", slog.Int("update_id", updateID))
	}

	return first
}
