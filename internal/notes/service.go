// Package notes provides the business operations behind the menu actions.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Proton-105/zametka-bot/internal/domain"
	appErrors "github.com/Proton-105/zametka-bot/internal/errors"
	"github.com/Proton-105/zametka-bot/internal/repository"
	"github.com/Proton-105/zametka-bot/pkg/metrics"
)

// Service wraps the note repository with error mapping and metrics.
type Service struct {
	repo repository.NoteRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.NoteRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Save persists a note and returns its identifier. Content is stored
// verbatim, but a blank body is rejected before it reaches the store: the
// transport never delivers an empty text update, so one here means a
// broken caller. A foreign-key violation surfaces as a constraint AppError
// rather than being swallowed.
func (s *Service) Save(ctx context.Context, userID int64, content string) (int64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, appErrors.NewValidationError("Заметка не может быть пустой")
	}

	noteID, err := s.repo.Add(ctx, userID, content)
	if err != nil {
		s.logError("save", userID, err)
		if errors.Is(err, repository.ErrUnknownUser) {
			return 0, appErrors.NewConstraintError(err)
		}
		return 0, appErrors.NewDatabaseError(err)
	}

	metrics.RecordNoteSaved()

	return noteID, nil
}

// List returns the user's notes, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Note, error) {
	notes, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logError("list", userID, err)
		return nil, appErrors.NewDatabaseError(err)
	}

	return notes, nil
}

// Delete removes a single note owned by the user. A zero count means the
// note did not exist or belongs to someone else; that is an outcome, not an
// error.
func (s *Service) Delete(ctx context.Context, userID, noteID int64) (int64, error) {
	count, err := s.repo.Delete(ctx, userID, noteID)
	if err != nil {
		s.logError("delete", userID, err)
		return 0, appErrors.NewDatabaseError(err)
	}

	if count > 0 {
		metrics.RecordNotesDeleted(count)
	}

	return count, nil
}

// Clear removes all of the user's notes and reports how many were deleted.
func (s *Service) Clear(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.Clear(ctx, userID)
	if err != nil {
		s.logError("clear", userID, err)
		return 0, appErrors.NewDatabaseError(err)
	}

	if count > 0 {
		metrics.RecordNotesDeleted(count)
	}

	return count, nil
}

func (s *Service) logError(operation string, userID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("notes service operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", userID),
		slog.Any("error", fmt.Errorf("%s: %w", operation, err)),
	)
}
