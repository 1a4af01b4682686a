// Package bot wires the Telegram transport to the session router.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/handlers"
	errors "github.com/Proton-105/zametka-bot/internal/errors"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/idempotency"
	"github.com/Proton-105/zametka-bot/internal/middleware"
	"github.com/Proton-105/zametka-bot/internal/notes"
	"github.com/Proton-105/zametka-bot/internal/state"
	"github.com/Proton-105/zametka-bot/internal/user"
	"github.com/Proton-105/zametka-bot/pkg/config"
)

// Bot wraps telebot.Bot with the application dependencies required for
// handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	dispatcher *Dispatcher
	errHandler *errors.Handler
	translator i18n.Translator
}

// Deps bundles the collaborators needed to assemble the bot.
type Deps struct {
	FSM          state.StateMachine
	NotesService *notes.Service
	UserService  *user.Service
	Translator   i18n.Translator
	RateLimitMw  *middleware.RateLimitMiddleware
	IdemGuard    *idempotency.Guard
}

// New builds a telegram bot instance configured according to the
// application settings.
func New(cfg config.Config, log *slog.Logger, deps Deps) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	timeout := cfg.Bot.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if cfg.Bot.Mode == "webhook" {
		listen := cfg.Bot.WebhookListen
		if listen == "" {
			listen = ":8443"
		}
		settings.Poller = &telebot.Webhook{
			Listen:   listen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	dispatcher := NewDispatcher(deps.FSM, log)
	router := NewRouter(dispatcher, log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		fsm:        deps.FSM,
		router:     router,
		dispatcher: dispatcher,
		errHandler: errHandler,
		translator: deps.Translator,
	}

	b.setupRouter(deps)

	if deps.IdemGuard != nil {
		b.telebot.Use(middleware.Idempotency(deps.IdemGuard))
	}
	if deps.RateLimitMw != nil {
		b.telebot.Use(deps.RateLimitMw.Handle)
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such
// as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(deps Deps) {
	t := b.translator

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler, t))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler, t))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(AuthMiddleware(deps.UserService, b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(b.fsm, t, b.log))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(t))
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(b.fsm, t, b.log))

	b.router.RegisterLabel(t.T("main_menu.create_note"), handlers.NewCreateNoteHandler(b.fsm, t, b.log))
	b.router.RegisterLabel(t.T("main_menu.my_notes"), handlers.NewListNotesHandler(deps.NotesService, t, b.log))
	b.router.RegisterLabel(t.T("main_menu.clear_all"), handlers.NewClearNotesHandler(deps.NotesService, t, b.log))
	b.router.RegisterLabel(t.T("main_menu.help"), handlers.NewHelpHandler(t))

	b.dispatcher.RegisterStateHandler(
		state.StateAwaitingNote,
		handlers.NewCaptureHandler(b.fsm, deps.NotesService, t, b.log),
	)

	b.router.SetDefault(handlers.NewFallbackHandler(t))
}
