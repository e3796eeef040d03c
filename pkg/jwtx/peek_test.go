package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestPeekExpiry(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "peek")
	issued := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	t.Run("reads exp without a key", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewAccessClaims("u", "STAFF", "", "", 10*time.Minute, "", issued))
		require.NoError(t, err)

		exp, err := jwtx.PeekExpiry(token)
		require.NoError(t, err)
		require.True(t, exp.Equal(issued.Add(10*time.Minute)))

		claims, err := jwtx.PeekClaims(token)
		require.NoError(t, err)
		require.Equal(t, "STAFF", claims.Role)
	})

	t.Run("missing exp", func(t *testing.T) {
		token, err := signer.Sign(jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}})
		require.NoError(t, err)

		_, err = jwtx.PeekExpiry(token)
		require.ErrorIs(t, err, jwtx.ErrNoExpiry)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := jwtx.PeekExpiry("opaque-session-token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
