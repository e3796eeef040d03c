package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/idx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

// Seeded account emails.
const (
	AdminEmail   = "admin@shiftboard.dev"
	ManagerEmail = "manager@shiftboard.dev"
	StaffEmail   = "staff@shiftboard.dev"
)

const seedBusinessUnit = "bu-main"

// SeedService fills an empty database with demo accounts, a week of shifts
// and a small catalog.
type SeedService struct {
	Store  store.Store
	Hasher *cryptox.Hasher

	// Password is shared by every seeded account.
	Password string

	// AdminTOTPSecret enrols the admin in TOTP when set.
	AdminTOTPSecret string

	// Now anchors the seeded roster. Defaults to time.Now.
	Now func() time.Time
}

// Seed is a no-op when users already exist. It reports whether it wrote anything.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.Debug("seed skipped, users present")
		return false, nil
	}
	if s.Password == "" {
		return false, fmt.Errorf("seed: password is required")
	}

	hash, err := s.Hasher.Hash(s.Password)
	if err != nil {
		l.Error("failed to hash seed password", slog.Any("error", err))
		return false, err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	users := []domain.User{
		{ID: idx.New().String(), Email: AdminEmail, Name: "Avery Admin", Role: domain.RoleAdmin, HourlyRate: 48, TOTPSecret: s.AdminTOTPSecret},
		{ID: idx.New().String(), Email: ManagerEmail, Name: "Morgan Manager", Role: domain.RoleManager, HourlyRate: 38.5},
		{ID: idx.New().String(), Email: StaffEmail, Name: "Sam Staff", Role: domain.RoleStaff, HourlyRate: 27.25},
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for i := range users {
			users[i].PasswordHash = hash
			users[i].BusinessUnitID = seedBusinessUnit
			if err := tx.Users().CreateUser(ctx, users[i]); err != nil {
				return fmt.Errorf("seed user %s: %w", users[i].Email, err)
			}
		}

		for _, sh := range seedShifts(now, users[1].ID, users[2].ID) {
			if err := tx.Shifts().CreateShift(ctx, sh); err != nil {
				return fmt.Errorf("seed shift: %w", err)
			}
		}

		for _, it := range seedItems(now) {
			if err := tx.ConsumptionItems().CreateItem(ctx, it); err != nil {
				return fmt.Errorf("seed item %s: %w", it.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	l.Info("seeded development data", "users", len(users), "admin_totp", s.AdminTOTPSecret != "")
	return true, nil
}

// seedShifts lays out the seven days starting at the Monday of now's week.
func seedShifts(now time.Time, managerID, staffID string) []domain.Shift {
	day := now.UTC().Truncate(24 * time.Hour)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))

	var out []domain.Shift
	for d := 0; d < 7; d++ {
		date := monday.AddDate(0, 0, d)
		out = append(out,
			domain.Shift{
				ID: idx.New().String(), StaffID: staffID,
				Start: date.Add(16 * time.Hour), End: date.Add(23*time.Hour + 30*time.Minute),
				Role: "BAR",
			},
		)
		if d%2 == 0 {
			out = append(out, domain.Shift{
				ID: idx.New().String(), StaffID: managerID,
				Start: date.Add(9 * time.Hour), End: date.Add(17 * time.Hour),
				Role: "FLOOR", Notes: "opening",
			})
		}
	}
	return out
}

func seedItems(now time.Time) []domain.ConsumptionItem {
	mk := func(name, category string, price float64, active bool) domain.ConsumptionItem {
		return domain.ConsumptionItem{
			ID: idx.New().String(), Name: name, Category: category,
			UnitPrice: price, Active: active, UpdatedAt: now,
		}
	}
	return []domain.ConsumptionItem{
		mk("Lemon Squash", "drinks", 3.5, true),
		mk("Soda Water", "drinks", 1, true),
		mk("Hot Chips", "food", 6, true),
		mk("Staff Meal", "food", 0, true),
		mk("Energy Drink", "drinks", 4.5, false),
	}
}
