package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnAndRole(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, "iss")

	tokenFor := func(role string) string {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u-1", role, "bu", "", time.Minute, "iss", time.Now()))
		require.NoError(t, err)
		return tok
	}

	var (
		seenUser   string
		seenClaims jwtx.Claims
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = httpx.UserIDFromCtx(r.Context())
		seenClaims, _ = httpx.ClaimsFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(inner, httpx.AuthnMiddleware(verifier), httpx.RequireRole("ADMIN", "MANAGER"))

	call := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := call("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("bad token", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, call("Bearer nope").Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		require.Equal(t, http.StatusOK, call("Bearer "+tokenFor("manager")).Code)
		require.Equal(t, "u-1", seenUser)
		require.Equal(t, "u-1", seenClaims.Subject)
		require.Equal(t, "manager", seenClaims.Role)
	})

	t.Run("denied role", func(t *testing.T) {
		rec := call("Bearer " + tokenFor("STAFF"))
		require.Equal(t, http.StatusForbidden, rec.Code)

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "forbidden", body.Error)
		require.Contains(t, body.ErrorDescription, "STAFF")
	})
}
