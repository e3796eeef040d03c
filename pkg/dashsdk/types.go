package dashsdk

import (
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
)

// UserProfile is the signed-in user as returned by the profile endpoint.
type UserProfile = sessionstore.User

// Session is a snapshot of the manager's state. Mutating it has no effect on
// the manager.
type Session struct {
	User         UserProfile
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	// Authorized is true when the user's role is on the allow-list.
	Authorized bool

	// Denial explains why Authorized is false. Empty otherwise.
	Denial string

	gen uint64
}

// Expired reports whether the access token has expired at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ExpiresWithin reports whether the access token expires within d of now.
func (s Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !now.Add(d).Before(s.ExpiresAt)
}

func (s Session) record() sessionstore.Record {
	return sessionstore.Record{
		User:         s.User,
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    timex.EpochTime{Time: s.ExpiresAt},
	}
}

// ============================================================================
// Wire types
// ============================================================================

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// RefreshRequest is the body of the refresh call.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned by both login and refresh. Only AccessToken is
// always present; login also guarantees Role.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	Role         string `json:"role,omitempty"`
	UserID       string `json:"userId,omitempty"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Business types
// ============================================================================

// Shift is one rostered shift.
type Shift struct {
	ID        string          `json:"id"`
	StaffID   string          `json:"staffId"`
	StaffName string          `json:"staffName"`
	Start     timex.Timestamp `json:"start"`
	End       timex.Timestamp `json:"end"`
	Role      string          `json:"role,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Duration is End minus Start, or zero when either is missing.
func (s Shift) Duration() time.Duration {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start.Time)
}

// ConsumptionItem is a catalog entry staff can consume on shift.
type ConsumptionItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	UnitPrice float64         `json:"unitPrice"`
	Active    bool            `json:"active"`
	UpdatedAt timex.Timestamp `json:"updatedAt"`
}

// PayrollLine is one staff member's totals within a payroll period.
type PayrollLine struct {
	StaffID   string  `json:"staffId"`
	StaffName string  `json:"staffName"`
	Hours     float64 `json:"hours"`
	Rate      float64 `json:"rate"`
	Gross     float64 `json:"gross"`
}

// PayrollSummary aggregates pay for a period.
type PayrollSummary struct {
	PeriodStart timex.Timestamp `json:"periodStart"`
	PeriodEnd   timex.Timestamp `json:"periodEnd"`
	Lines       []PayrollLine   `json:"lines"`
	TotalHours  float64         `json:"totalHours"`
	TotalGross  float64         `json:"totalGross"`
}
