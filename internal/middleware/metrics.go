// Package middleware contains transport-level middlewares for the bot.
package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/handlers"
	"github.com/Proton-105/zametka-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting
// them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(extractAction(c), status, time.Since(start))

		return err
	}
}

func extractAction(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	text := c.Text()
	if text == "" {
		return "unknown"
	}

	// Slash commands are low-cardinality; anything else is user text and
	// must not leak into label values.
	if text[0] == '/' {
		return text
	}

	return "text"
}
