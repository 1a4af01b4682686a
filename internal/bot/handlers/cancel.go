package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/keyboard"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/state"
)

// NewCancelHandler abandons a pending compose session and returns the user
// to the main menu.
func NewCancelHandler(fsm state.StateMachine, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("cancel handler invoked without sender")
			return nil
		}

		if err := fsm.ClearState(context.Background(), sender.ID); err != nil {
			log.Error("failed to clear user state", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Send(t.T("msg.cancelled"), keyboard.MainMenu(t))
	}
}
