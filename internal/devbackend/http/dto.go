package http

import (
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
)

// Wire shapes served by the backend. Timestamps are encoded in several
// formats on purpose so clients have to normalize them.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
}

type ProfileResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	BusinessUnitID string `json:"businessUnitId,omitempty"`
}

// ShiftResponse encodes start as epoch seconds and end as RFC3339.
type ShiftResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
	Start     int64  `json:"start"`
	End       string `json:"end"`
	Role      string `json:"role,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ItemResponse encodes updatedAt as epoch milliseconds.
type ItemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Active    bool    `json:"active"`
	UpdatedAt int64   `json:"updatedAt"`
}

type PayrollLineResponse struct {
	StaffID   string  `json:"staffId"`
	StaffName string  `json:"staffName"`
	Hours     float64 `json:"hours"`
	Rate      float64 `json:"rate"`
	Gross     float64 `json:"gross"`
}

// PayrollResponse encodes periodStart as a date and periodEnd as a legacy
// [year, month, day] tuple naming the last day included.
type PayrollResponse struct {
	PeriodStart string                `json:"periodStart"`
	PeriodEnd   []int                 `json:"periodEnd"`
	Lines       []PayrollLineResponse `json:"lines"`
	TotalHours  float64               `json:"totalHours"`
	TotalGross  float64               `json:"totalGross"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

func toTokenResponse(p *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
		Role:         p.Role,
		UserID:       p.UserID,
	}
}

func toProfile(u domain.User) ProfileResponse {
	return ProfileResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		BusinessUnitID: u.BusinessUnitID,
	}
}

func toShift(s domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID,
		StaffID:   s.StaffID,
		StaffName: s.StaffName,
		Start:     s.Start.Unix(),
		End:       s.End.UTC().Format(time.RFC3339),
		Role:      s.Role,
		Notes:     s.Notes,
	}
}

func toItem(i domain.ConsumptionItem) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Category:  i.Category,
		UnitPrice: i.UnitPrice,
		Active:    i.Active,
		UpdatedAt: timex.EpochMillis(i.UpdatedAt),
	}
}

func toPayroll(p *domain.PayrollSummary) PayrollResponse {
	end := p.PeriodEnd.Add(-time.Nanosecond).UTC()
	out := PayrollResponse{
		PeriodStart: p.PeriodStart.UTC().Format(time.DateOnly),
		PeriodEnd:   []int{end.Year(), int(end.Month()), end.Day()},
		Lines:       make([]PayrollLineResponse, 0, len(p.Lines)),
		TotalHours:  p.TotalHours,
		TotalGross:  p.TotalGross,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, PayrollLineResponse(l))
	}
	return out
}
