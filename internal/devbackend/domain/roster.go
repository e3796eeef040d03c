package domain

import "time"

type Shift struct {
	ID        string
	StaffID   string
	StaffName string
	Start     time.Time
	End       time.Time
	Role      string
	Notes     string
}

// Hours is the shift length in hours.
func (s Shift) Hours() float64 { return s.End.Sub(s.Start).Hours() }

type ConsumptionItem struct {
	ID        string
	Name      string
	Category  string
	UnitPrice float64
	Active    bool
	UpdatedAt time.Time
}

type PayrollLine struct {
	StaffID   string
	StaffName string
	Hours     float64
	Rate      float64
	Gross     float64
}

type PayrollSummary struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []PayrollLine
	TotalHours  float64
	TotalGross  float64
}
