package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store/drivers/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "devbackend.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s store.Store, id, email, role string) domain.User {
	t.Helper()
	u := domain.User{ID: id, Email: email, Name: "User " + id, PasswordHash: "hash", Role: role, HourlyRate: 25}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	seedUser(t, s, "u1", "Ada@Example.com", domain.RoleAdmin)
	require.ErrorIs(t, s.Users().CreateUser(ctx, domain.User{
		ID: "u2", Email: "ada@example.com", PasswordHash: "x", Role: domain.RoleStaff,
	}), store.ErrAlreadyExists)

	got, err := s.Users().GetUserByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
	require.Empty(t, got.TOTPSecret)
	require.InDelta(t, 25, got.HourlyRate, 0.001)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().UpdateRole(ctx, "u1", domain.RoleManager))
	got, err = s.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, got.Role)

	require.ErrorIs(t, s.Users().UpdateRole(ctx, "missing", domain.RoleAdmin), store.ErrNotFound)

	all, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, "u1", "a@example.com", domain.RoleAdmin)

	now := time.Now()
	live := domain.RefreshToken{ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: now.Add(time.Hour)}
	stale := domain.RefreshToken{ID: "t2", UserID: "u1", TokenHash: "h2", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, live))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, stale))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "h1")
	require.NoError(t, err)
	require.False(t, got.Revoked)
	require.WithinDuration(t, live.ExpiresAt, got.ExpiresAt, time.Millisecond)

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "h1"))
	require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, "h1"), store.ErrNotFound)

	n, err := s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "h2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, "u1", "a@example.com", domain.RoleAdmin)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: time.Now().Add(time.Hour),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "h1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: time.Now().Add(time.Hour),
		})
	}))
	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "h1")
	require.NoError(t, err)
}

func TestRoster(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, "u1", "a@example.com", domain.RoleStaff)

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i, start := range []time.Time{day.Add(9 * time.Hour), day.Add(33 * time.Hour), day.Add(-15 * time.Hour)} {
		require.NoError(t, s.Shifts().CreateShift(ctx, domain.Shift{
			ID: string(rune('a' + i)), StaffID: "u1", Start: start, End: start.Add(8 * time.Hour),
		}))
	}

	all, err := s.Shifts().ListShifts(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "c", all[0].ID)
	require.Equal(t, "User u1", all[0].StaffName)

	window, err := s.Shifts().ListShifts(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, 8.0, window[0].Hours())

	bad := domain.Shift{ID: "z", StaffID: "u1", Start: day, End: day}
	require.Error(t, s.Shifts().CreateShift(ctx, bad))

	require.NoError(t, s.ConsumptionItems().CreateItem(ctx, domain.ConsumptionItem{
		ID: "i1", Name: "Cola", Category: "drinks", UnitPrice: 2.5, Active: true,
	}))
	require.NoError(t, s.ConsumptionItems().CreateItem(ctx, domain.ConsumptionItem{
		ID: "i2", Name: "Chips", Category: "bar snacks", UnitPrice: 3,
	}))
	items, err := s.ConsumptionItems().ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Chips", items[0].Name)
	require.False(t, items[0].Active)
	require.True(t, items[1].Active)
}

func TestMigrationsIdempotent(t *testing.T) {
	t.Parallel()
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}
