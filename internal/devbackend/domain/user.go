package domain

import "time"

// Roles known to the backend. Only ADMIN and MANAGER may use the dashboard.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

type User struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string // argon2id encoded
	Role           string
	BusinessUnitID string
	TOTPSecret     string // base32; empty when no second factor is enrolled
	HourlyRate     float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequiresOTP reports whether login needs a one-time code.
func (u User) RequiresOTP() bool { return u.TOTPSecret != "" }
