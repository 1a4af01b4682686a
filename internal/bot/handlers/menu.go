package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/keyboard"
	appErrors "github.com/Proton-105/zametka-bot/internal/errors"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/notes"
	"github.com/Proton-105/zametka-bot/internal/state"
)

// NewCreateNoteHandler asks for the note body and switches the session into
// the awaiting-note state. The menu keyboard is removed until the note
// arrives.
func NewCreateNoteHandler(fsm state.StateMachine, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("create note handler invoked without sender")
			return nil
		}

		if err := fsm.TransitionTo(context.Background(), sender.ID, state.StateAwaitingNote); err != nil {
			log.Error("failed to enter compose state", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			if errors.Is(err, state.ErrInvalidTransition) {
				return appErrors.NewStateError("compose session is already open")
			}
			return err
		}

		return c.Send(t.T("msg.compose_prompt"), keyboard.ComposePrompt())
	}
}

// NewListNotesHandler renders the user's notes as a counted bulleted list,
// newest first.
func NewListNotesHandler(svc *notes.Service, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("list notes handler invoked without sender")
			return nil
		}

		items, err := svc.List(context.Background(), sender.ID)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			return c.Send(t.T("msg.no_notes"), keyboard.MainMenu(t))
		}

		var b strings.Builder
		fmt.Fprintf(&b, t.T("msg.notes_header"), len(items))
		b.WriteString("\n\n")
		for _, note := range items {
			b.WriteString("• ")
			b.WriteString(note.Content)
			b.WriteString("\n")
		}

		return c.Send(strings.TrimRight(b.String(), "\n"), keyboard.MainMenu(t))
	}
}

// NewClearNotesHandler deletes every note the user owns and reports the
// count. Zero deletions is an informational reply, not an error.
func NewClearNotesHandler(svc *notes.Service, t i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("clear notes handler invoked without sender")
			return nil
		}

		count, err := svc.Clear(context.Background(), sender.ID)
		if err != nil {
			return err
		}

		if count == 0 {
			return c.Send(t.T("msg.nothing_to_clear"), keyboard.MainMenu(t))
		}

		return c.Send(fmt.Sprintf(t.T("msg.notes_cleared"), count), keyboard.MainMenu(t))
	}
}

// NewHelpHandler sends the static help text describing the menu actions.
func NewHelpHandler(t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		return c.Send(t.T("msg.help"), keyboard.MainMenu(t))
	}
}

// NewFallbackHandler nudges users who type free text while idle towards the
// menu buttons.
func NewFallbackHandler(t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		return c.Send(t.T("msg.fallback"), keyboard.MainMenu(t))
	}
}
