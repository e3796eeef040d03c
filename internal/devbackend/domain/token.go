package domain

import "time"

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Role         string
	UserID       string
}

// RefreshToken is the stored form of an opaque refresh token.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // base64url SHA-256 fingerprint
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
