package domain

import "time"

// User models a registered marketplace member.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller resolved from a bearer token.
// A nil *Identity means the request is anonymous.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}
