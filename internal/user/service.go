package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/domain"
	"github.com/Proton-105/zametka-bot/internal/repository"
	"github.com/Proton-105/zametka-bot/internal/usercache"
)

const cacheTTL = 30 * time.Minute

// Service provides business operations over users.
type Service struct {
	repo  repository.UserRepository
	cache *usercache.Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance. The cache may be nil, in
// which case every call goes straight to the repository.
func NewService(repo repository.UserRepository, cache *usercache.Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// EnsureExists records the sender on first contact. The insert is
// first-write-wins: repeated calls, even with changed profile fields, leave
// the stored row untouched. The cache only short-circuits the database
// round trip; a cache outage is logged and ignored.
func (s *Service) EnsureExists(ctx context.Context, telegramUser *telebot.User) error {
	if telegramUser == nil {
		return errors.New("telegram user is nil")
	}

	if cached, err := s.cache.Get(ctx, telegramUser.ID); err != nil {
		s.logError("ensure_exists.cache_get", telegramUser.ID, err)
	} else if cached != nil {
		return nil
	}

	newUser := &domain.User{
		ID:        telegramUser.ID,
		Username:  telegramUser.Username,
		FirstName: telegramUser.FirstName,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, newUser); err != nil {
		s.logError("ensure_exists.upsert", telegramUser.ID, err)
		return fmt.Errorf("upsert user: %w", err)
	}

	if err := s.cache.Set(ctx, telegramUser.ID, newUser, cacheTTL); err != nil {
		s.logError("ensure_exists.cache_set", telegramUser.ID, err)
	}

	return nil
}

func (s *Service) logError(operation string, userID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", userID),
		slog.Any("error", err),
	)
}
