package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/file"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
	"github.com/stretchr/testify/require"
)

func record(role string) sessionstore.Record {
	return sessionstore.Record{
		User:         sessionstore.User{Email: "a@example.com", Role: role},
		Token:        "tok-" + role,
		RefreshToken: "ref",
		ExpiresAt:    timex.EpochTime{Time: time.Now().Add(time.Hour).Truncate(time.Millisecond)},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := file.New(path)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)

	want := record("ADMIN")
	require.NoError(t, s.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Token, got.Token)
	require.True(t, want.ExpiresAt.Equal(got.ExpiresAt.Time))

	require.NoError(t, s.Save(ctx, record("MANAGER")))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "MANAGER", got.User.Role)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not linger")

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestFileStoreCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := file.New(path)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	require.ErrorIs(t, err, sessionstore.ErrCorrupt)
}

func TestFileStoreWatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	s, err := file.New(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan file.Change, 8)
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, func(c file.Change) { changes <- c }) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	other, err := file.New(path)
	require.NoError(t, err)
	require.NoError(t, other.Save(context.Background(), record("ADMIN")))

	select {
	case c := <-changes:
		require.Equal(t, file.Written, c)
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed after save")
	}

	require.NoError(t, other.Clear(context.Background()))
	select {
	case c := <-changes:
		require.Equal(t, file.Removed, c)
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed after clear")
	}

	cancel()
	require.NoError(t, <-done)
}
