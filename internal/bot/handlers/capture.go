package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/keyboard"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/notes"
	"github.com/Proton-105/zametka-bot/internal/state"
)

// NewCaptureHandler consumes the next text message as the note body while
// the session is in the awaiting-note state. Any text qualifies, including
// text that happens to equal a menu label: the compose session takes
// precedence over label matching. The session returns to idle before the
// save is attempted, so a failed save still ends the compose session.
func NewCaptureHandler(fsm state.StateMachine, svc *notes.Service, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("capture handler invoked without sender")
			return nil
		}

		ctx := context.Background()
		content := c.Text()

		if err := fsm.TransitionTo(ctx, sender.ID, state.StateIdle); err != nil {
			log.Error("failed to leave compose state", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		noteID, err := svc.Save(ctx, sender.ID, content)
		if err != nil {
			return err
		}

		log.Info("note saved", slog.Int64("user_id", sender.ID), slog.Int64("note_id", noteID))

		return c.Send(fmt.Sprintf(t.T("msg.note_saved"), content), keyboard.MainMenu(t))
	}
}
