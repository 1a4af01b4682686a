package middleware

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/idempotency"
)

// Idempotency drops updates that were already handled once. Runs at the
// telebot level so duplicates never reach the session router.
func Idempotency(guard *idempotency.Guard) func(telebot.HandlerFunc) telebot.HandlerFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if guard == nil || c == nil {
				return next(c)
			}

			if !guard.FirstSeen(context.Background(), c.Update().ID) {
				return nil
			}

			return next(c)
		}
	}
}
