package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
)

type RosterService struct {
	Store store.Store
}

// ListShifts returns shifts starting in [from, to). Zero bounds are open.
func (s *RosterService) ListShifts(ctx context.Context, from, to time.Time) ([]domain.Shift, error) {
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, ErrInvalidPeriod
	}
	return s.Store.Shifts().ListShifts(ctx, from, to)
}

func (s *RosterService) ListItems(ctx context.Context) ([]domain.ConsumptionItem, error) {
	return s.Store.ConsumptionItems().ListItems(ctx)
}

// Payroll totals hours and gross pay per staff member for shifts starting in
// [from, to). Both bounds are required.
func (s *RosterService) Payroll(ctx context.Context, from, to time.Time) (*domain.PayrollSummary, error) {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, ErrInvalidPeriod
	}

	shifts, err := s.Store.Shifts().ListShifts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	lines := map[string]*domain.PayrollLine{}
	for _, sh := range shifts {
		line, ok := lines[sh.StaffID]
		if !ok {
			u, err := s.Store.Users().GetUserByID(ctx, sh.StaffID)
			if err != nil {
				return nil, err
			}
			line = &domain.PayrollLine{StaffID: u.ID, StaffName: u.Name, Rate: u.HourlyRate}
			lines[sh.StaffID] = line
		}
		line.Hours += sh.Hours()
	}

	sum := &domain.PayrollSummary{PeriodStart: from, PeriodEnd: to}
	for _, line := range lines {
		line.Hours = round2(line.Hours)
		line.Gross = round2(line.Hours * line.Rate)
		sum.TotalHours += line.Hours
		sum.TotalGross += line.Gross
		sum.Lines = append(sum.Lines, *line)
	}
	sort.Slice(sum.Lines, func(i, j int) bool { return sum.Lines[i].StaffName < sum.Lines[j].StaffName })
	sum.TotalHours = round2(sum.TotalHours)
	sum.TotalGross = round2(sum.TotalGross)
	return sum, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
