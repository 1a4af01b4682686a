// Package keyboard builds the reply markup shown alongside bot messages.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/i18n"
)

// MainMenu builds the localized reply keyboard for the bot main menu. The
// same markup is attached to nearly every reply so the user can always
// recover by tapping a button.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	createBtn := markup.Text(lookup("main_menu.create_note"))
	listBtn := markup.Text(lookup("main_menu.my_notes"))
	clearBtn := markup.Text(lookup("main_menu.clear_all"))
	helpBtn := markup.Text(lookup("main_menu.help"))

	markup.Reply(
		markup.Row(createBtn, listBtn),
		markup.Row(clearBtn, helpBtn),
	)

	return markup
}

// ComposePrompt removes the menu while the user types a note body.
func ComposePrompt() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
