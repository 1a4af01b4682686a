// Package state manages per-user conversational state for the bot.
//
// Sessions are deliberately volatile: a process restart silently returns
// every user to idle, which matches the semantics of an abandoned compose
// session.
package state

import "context"

// Storage defines the persistence contract for user session state.
type Storage interface {
	// GetState returns the current state for the specified user.
	GetState(ctx context.Context, userID int64) (*UserState, error)
	// SetState saves the provided state for the specified user.
	SetState(ctx context.Context, userID int64, state *UserState) error
	// ClearState removes the state for the specified user.
	ClearState(ctx context.Context, userID int64) error
}
