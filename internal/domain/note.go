package domain

import "time"

// Note is a user-owned piece of persisted text content.
type Note struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
