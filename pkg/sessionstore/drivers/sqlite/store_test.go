package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/sqlite"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, dsn, key string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(dsn, key)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t, filepath.Join(t.TempDir(), "session.db"), "")

	require.NoError(t, s.Ping(ctx))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)
	_, err = s.UpdatedAt(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)

	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	rec := sessionstore.Record{
		User:         sessionstore.User{ID: "u", Email: "a@example.com", Role: "ADMIN"},
		Token:        "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    timex.EpochTime{Time: exp},
	}
	require.NoError(t, s.Save(ctx, rec))

	rec.Token = "access-2"
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "access-2", got.Token)
	require.True(t, exp.Equal(got.ExpiresAt.Time))

	at, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), at, time.Minute)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestSQLiteStoreKeysAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "shared.db")

	a := newStore(t, dsn, "profile-a")
	b := newStore(t, dsn, "profile-b")

	require.NoError(t, a.Save(ctx, sessionstore.Record{
		User:      sessionstore.User{Email: "a", Role: "ADMIN"},
		Token:     "a",
		ExpiresAt: timex.EpochTime{Time: time.Now().Add(time.Hour)},
	}))

	_, err := b.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)

	// Migrations are idempotent across handles.
	require.NoError(t, b.ApplyMigrations())
}
