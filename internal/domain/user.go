package domain

import "time"

// User represents a Telegram user known to the bot.
// A row is created on first contact and never mutated afterwards.
type User struct {
	ID        int64
	Username  string
	FirstName string
	CreatedAt time.Time
}
