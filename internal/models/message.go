package models

import "time"

// MaxMessageLength is the character limit for a single message.
const MaxMessageLength = 140

// Message represents a short post authored by a user.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
