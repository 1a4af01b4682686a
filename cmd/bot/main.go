package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/zametka-bot/internal/bot"
	"github.com/Proton-105/zametka-bot/internal/database"
	"github.com/Proton-105/zametka-bot/internal/health"
	"github.com/Proton-105/zametka-bot/internal/i18n"
	"github.com/Proton-105/zametka-bot/internal/idempotency"
	"github.com/Proton-105/zametka-bot/internal/middleware"
	"github.com/Proton-105/zametka-bot/internal/notes"
	"github.com/Proton-105/zametka-bot/internal/ratelimit"
	"github.com/Proton-105/zametka-bot/internal/repository"
	"github.com/Proton-105/zametka-bot/internal/state"
	"github.com/Proton-105/zametka-bot/internal/user"
	"github.com/Proton-105/zametka-bot/internal/usercache"
	"github.com/Proton-105/zametka-bot/pkg/config"
	"github.com/Proton-105/zametka-bot/pkg/graceful"
	"github.com/Proton-105/zametka-bot/pkg/logger"
	"github.com/Proton-105/zametka-bot/pkg/metrics"
	appredis "github.com/Proton-105/zametka-bot/pkg/redis"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(*cfg)
	log.Info("starting zametka bot",
		"env", cfg.AppEnv,
		"mode", cfg.Bot.Mode,
		"http_port", cfg.Server.Port,
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", "error", err)
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database", "error", cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.Apply(ctx); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	log.Info("database schema is up to date")

	redisClient, err := appredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				log.Error("error closing redis client", "error", cerr)
			}
		}()
	}

	state.RegisterTransitionRecorder(metrics.RecordStateTransition)
	fsm := state.NewStateMachine(state.NewMemoryStorage(), log)

	userRepo := repository.NewUserRepository(db, log)
	noteRepo := repository.NewNoteRepository(db, log)
	userService := user.NewService(userRepo, usercache.NewCache(redisClient), log)
	notesService := notes.NewService(noteRepo, log)

	i18nManager, err := i18n.Load(cfg.I18n.DefaultLang)
	if err != nil {
		log.Error("failed to load translations", "error", err)
		os.Exit(1)
	}
	translator := i18nManager.Translator(cfg.I18n.DefaultLang)

	deps := bot.Deps{
		FSM:          fsm,
		NotesService: notesService,
		UserService:  userService,
		Translator:   translator,
	}

	if cfg.RateLimit.Enabled {
		var limiter ratelimit.Limiter
		if redisClient != nil {
			limiter = ratelimit.NewRedisLimiter(redisClient, log)
		} else {
			memLimiter := ratelimit.NewMemoryLimiter(log)
			go func() {
				ticker := time.NewTicker(5 * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						memLimiter.Cleanup(time.Hour)
					}
				}
			}()
			limiter = memLimiter
		}
		deps.RateLimitMw = middleware.NewRateLimitMiddleware(limiter, ratelimit.NewRules(cfg.RateLimit), log)
	}

	if redisClient != nil {
		deps.IdemGuard = idempotency.NewGuard(redisClient, 0, log)
	}

	b, err := bot.New(*cfg, log, deps)
	if err != nil {
		log.Error("failed to initialize telegram bot", "error", err)
		os.Exit(1)
	}

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", checker.Handler())

	opsServer := graceful.NewServer(log, &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: logger.Middleware(mux),
	}, cfg.Server.ShutdownTimeout)

	config.Watch(v, log, func(updated *config.Config) {
		log.Info("configuration reloaded", "env", updated.AppEnv)
	})

	go b.Start()

	if err := opsServer.ListenAndServe(ctx); err != nil {
		log.Error("ops server failed", "error", err)
	}

	b.Stop()
	log.Info("zametka bot shut down")
}
