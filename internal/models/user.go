package models

import (
	"fmt"
	"time"
)

// Default profile images used when signup supplies none.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a user account in the system.
type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"` // Never expose this to the client
	Bio            string    `json:"bio" db:"bio"`
	ImageURL       string    `json:"imageUrl" db:"image_url"`
	HeaderImageURL string    `json:"headerImageUrl" db:"header_image_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Handle returns the username in display form, with a leading "@".
func (u User) Handle() string {
	return "@" + u.Username
}

func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Zero-valued string fields are left untouched; Bio uses a pointer so an
// explicit empty string still clears it.
type ProfileUpdate struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Bio            *string `json:"bio"`
	ImageURL       string  `json:"imageUrl"`
	HeaderImageURL string  `json:"headerImageUrl"`
}
