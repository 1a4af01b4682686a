package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/keyboard"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/state"
)

// NewStartHandler greets the user and resets the session to idle. The user
// row itself is created by the auth middleware before this handler runs.
func NewStartHandler(fsm state.StateMachine, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		if err := fsm.SetState(context.Background(), sender.ID, state.StateIdle); err != nil {
			log.Error("failed to reset user state", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		name := sender.FirstName
		if name == "" {
			name = sender.Username
		}

		return c.Send(fmt.Sprintf(t.T("msg.greeting"), name), keyboard.MainMenu(t))
	}
}
