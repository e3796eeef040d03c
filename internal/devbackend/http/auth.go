package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

const maxBodyBytes = 64 << 10

// AuthHandler serves the login and refresh endpoints.
type AuthHandler struct {
	TokenService *service.TokenService
}

// HandleLogin godoc
//
//	@Summary		Log in with email and password
//	@Description	Returns an access token, a rotating refresh token and the account role.
//	@Description	Accounts enrolled in TOTP must also send the current code in "otp".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest		true	"Credentials"
//	@Success		200		{object}	TokenResponse		"accessToken, refreshToken, expiresIn, role, userId"
//	@Failure		400		{object}	httpx.ErrorBody		"Malformed body"
//	@Failure		401		{object}	httpx.ErrorBody		"invalid_credentials or mfa_required"
//	@Failure		429		{object}	httpx.ErrorBody		"Rate limit exceeded"
//	@Failure		500		{object}	httpx.ErrorBody		"Internal server error"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	pair, err := h.TokenService.Login(ctx, req.Email, req.Password, strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFARequired):
			httpx.WriteError(w, http.StatusUnauthorized, "mfa_required", "a valid one-time code is required")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

// HandleRefresh godoc
//
//	@Summary		Exchange a refresh token
//	@Description	Rotates the refresh token. The presented token is revoked and cannot be used again.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RefreshRequest		true	"Refresh token"
//	@Success		200		{object}	TokenResponse		"accessToken, refreshToken, expiresIn, role, userId"
//	@Failure		400		{object}	httpx.ErrorBody		"Malformed body"
//	@Failure		401		{object}	httpx.ErrorBody		"invalid_grant"
//	@Failure		429		{object}	httpx.ErrorBody		"Rate limit exceeded"
//	@Failure		500		{object}	httpx.ErrorBody		"Internal server error"
//	@Router			/api/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refreshToken is required")
		return
	}

	pair, err := h.TokenService.ExchangeRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_grant", "refresh token is invalid, expired or revoked")
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

// decodeBody reads a JSON body into v, writing a 400 and returning false on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "content type must be application/json")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return false
	}
	return true
}
