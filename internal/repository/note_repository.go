package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Proton-105/zametka-bot/internal/domain"
)

const pgForeignKeyViolation = "23503"

// ErrUnknownUser indicates that a note insert referenced a user row that
// does not exist. The router guarantees user creation before any note
// operation, so callers should treat this as a programming error.
var ErrUnknownUser = errors.New("note references unknown user")

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Add(ctx context.Context, userID int64, content string) (int64, error)
	List(ctx context.Context, userID int64) ([]domain.Note, error)
	Delete(ctx context.Context, userID, noteID int64) (int64, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

type noteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewNoteRepository creates a new SQL-backed note repository.
func NewNoteRepository(db *sql.DB, log *slog.Logger) NoteRepository {
	return &noteRepository{
		db:  db,
		log: log,
	}
}

// Add inserts a note and returns the assigned identifier. Content is stored
// verbatim, without trimming or validation.
func (r *noteRepository) Add(ctx context.Context, userID int64, content string) (int64, error) {
	const query = `
		INSERT INTO notes (user_id, content)
		VALUES ($1, $2)
		RETURNING note_id
	`

	var noteID int64
	if err := r.db.QueryRowContext(ctx, query, userID, content).Scan(&noteID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return 0, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
		}

		if r.log != nil {
			r.log.Error("failed to insert note", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("insert note: %w", err)
	}

	return noteID, nil
}

// List returns the user's notes sorted by creation time descending. A user
// without notes gets an empty slice, not an error.
func (r *noteRepository) List(ctx context.Context, userID int64) ([]domain.Note, error) {
	query, args, err := listNotesQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to query notes", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// Delete removes a single note only when both identifiers match, so one
// user can never delete another user's note. The returned count is 0 or 1.
func (r *noteRepository) Delete(ctx context.Context, userID, noteID int64) (int64, error) {
	const query = `
		DELETE FROM notes
		WHERE user_id = $1 AND note_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, userID, noteID)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to delete note",
				slog.Int64("user_id", userID),
				slog.Int64("note_id", noteID),
				slog.Any("error", err),
			)
		}
		return 0, fmt.Errorf("delete note: %w", err)
	}

	return result.RowsAffected()
}

// Clear removes every note owned by the user and reports how many rows went
// away. Zero is a normal outcome.
func (r *noteRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	const query = `
		DELETE FROM notes
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to clear notes", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("clear notes: %w", err)
	}

	return result.RowsAffected()
}

func listNotesQuery(userID int64) squirrel.SelectBuilder {
	return squirrel.
		Select("note_id", "user_id", "content", "created_at", "updated_at").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
}
