package state

import "time"

// State represents a finite-state machine state.
type State string

const (
	// StateIdle indicates that the bot is waiting for the next menu action.
	StateIdle State = "idle"
	// StateAwaitingNote indicates that the next text message from the user
	// is the body of the note being composed.
	StateAwaitingNote State = "awaiting_note"
)

// UserState captures the current conversational state for a Telegram user.
type UserState struct {
	UserID       int64     `json:"user_id"`
	CurrentState State     `json:"current_state"`
	UpdatedAt    time.Time `json:"updated_at"`
}
