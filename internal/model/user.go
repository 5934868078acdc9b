package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Nickname  *string   `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session represents an authenticated browser session. The OAuth access token
// acquired at login is kept encrypted and never serialized.
type Session struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	TokenHash             string    `json:"-"`
	AccessTokenCiphertext *string   `json:"-"`
	ExpiresAt             time.Time `json:"expires_at"`
	CreatedAt             time.Time `json:"created_at"`
}
