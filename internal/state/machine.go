package state

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that a user state record does not exist.
	ErrStateNotFound = errors.New("user state not found")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe FSM transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// StateMachine describes the operations supported by the FSM controller.
type StateMachine interface {
	GetState(ctx context.Context, userID int64) (*UserState, error)
	SetState(ctx context.Context, userID int64, state State) error
	TransitionTo(ctx context.Context, userID int64, newState State) error
	ClearState(ctx context.Context, userID int64) error
}

// machine is a concrete implementation of StateMachine backed by Storage.
// The storage is responsible for its own locking; updates for a single user
// arrive serially from the Telegram poller.
type machine struct {
	storage Storage
	log     *slog.Logger
}

// NewStateMachine creates a FSM controller using the provided storage backend.
func NewStateMachine(storage Storage, log *slog.Logger) StateMachine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage: storage,
		log:     log,
	}
}

// GetState proxies to the underlying storage implementation.
func (m *machine) GetState(ctx context.Context, userID int64) (*UserState, error) {
	return m.storage.GetState(ctx, userID)
}

// SetState stores the state unconditionally, bypassing transition checks.
func (m *machine) SetState(ctx context.Context, userID int64, state State) error {
	return m.storage.SetState(ctx, userID, &UserState{
		UserID:       userID,
		CurrentState: state,
	})
}

// TransitionTo changes the state if the transition is allowed. Users without
// a stored session are treated as idle.
func (m *machine) TransitionTo(ctx context.Context, userID int64, newState State) error {
	current := StateIdle

	storedState, err := m.storage.GetState(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return err
		}
	} else if storedState != nil {
		current = storedState.CurrentState
	}

	if !IsTransitionAllowed(current, newState) {
		m.log.Warn("invalid state transition", "user_id", userID, "from", current, "to", newState)
		return ErrInvalidTransition
	}

	transitionRecorder(string(current), string(newState))

	return m.storage.SetState(ctx, userID, &UserState{
		UserID:       userID,
		CurrentState: newState,
	})
}

// ClearState removes the stored state via the backing storage.
func (m *machine) ClearState(ctx context.Context, userID int64) error {
	return m.storage.ClearState(ctx, userID)
}
