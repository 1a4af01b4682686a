package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps user sessions in process memory. The map is shared
// across users, so access is guarded for the case where the poller hands
// updates from distinct users to concurrent goroutines.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]*UserState
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory session store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		states: make(map[int64]*UserState),
	}
}

// GetState returns the stored session or ErrStateNotFound for unseen users.
func (s *MemoryStorage) GetState(_ context.Context, userID int64) (*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.states[userID]
	if !ok {
		return nil, ErrStateNotFound
	}

	copied := *stored
	return &copied, nil
}

// SetState stores a copy of the session keyed by user.
func (s *MemoryStorage) SetState(_ context.Context, userID int64, userState *UserState) error {
	if userState == nil {
		return nil
	}

	copied := *userState
	copied.UserID = userID
	copied.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.states[userID] = &copied
	s.mu.Unlock()

	return nil
}

// ClearState drops the session for the user. Clearing an unknown user is a no-op.
func (s *MemoryStorage) ClearState(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()

	return nil
}

// Len reports the number of tracked sessions.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.states)
}
