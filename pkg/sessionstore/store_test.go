package sessionstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
	"github.com/stretchr/testify/require"
)

func sampleRecord() sessionstore.Record {
	return sessionstore.Record{
		User:         sessionstore.User{ID: "u-1", Email: "m@example.com", Role: "MANAGER"},
		Token:        "access",
		RefreshToken: "refresh",
		ExpiresAt:    timex.EpochTime{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestEncodeWritesEpochMillis(t *testing.T) {
	t.Parallel()

	b, err := sessionstore.Encode(sampleRecord())
	require.NoError(t, err)
	require.JSONEq(t, `{
		"user": {"id":"u-1","email":"m@example.com","role":"MANAGER"},
		"token": "access",
		"refreshToken": "refresh",
		"expiresAt": 1767225600000
	}`, string(b))
}

func TestDecodeAcceptsLegacyShapes(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, exp := range map[string]string{
		"millis":  `1767225600000`,
		"seconds": `1767225600`,
		"nanos":   `1767225600000000000`,
		"iso":     `"2026-01-01T00:00:00Z"`,
	} {
		t.Run(name, func(t *testing.T) {
			r, err := sessionstore.Decode([]byte(`{"user":{"email":"a","role":"ADMIN"},"token":"t","expiresAt":` + exp + `}`))
			require.NoError(t, err)
			require.True(t, want.Equal(r.ExpiresAt.Time))
		})
	}
}

func TestDecodeRejectsCorrupt(t *testing.T) {
	t.Parallel()

	for name, raw := range map[string]string{
		"not json":       `{{{`,
		"missing token":  `{"user":{},"token":"","expiresAt":1767225600000}`,
		"missing expiry": `{"user":{},"token":"t"}`,
		"bad expiry":     `{"user":{},"token":"t","expiresAt":"soon"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := sessionstore.Decode([]byte(raw))
			require.ErrorIs(t, err, sessionstore.ErrCorrupt)
		})
	}
}

func TestRecordExpired(t *testing.T) {
	t.Parallel()

	r := sampleRecord()
	require.False(t, r.Expired(r.ExpiresAt.Add(-time.Second)))
	require.True(t, r.Expired(r.ExpiresAt.Time))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := sessionstore.NewMemoryStore()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)

	require.NoError(t, s.Save(ctx, sampleRecord()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "MANAGER", got.User.Role)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrNotFound)

	s.Put([]byte("garbage"))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, sessionstore.ErrCorrupt)
}
