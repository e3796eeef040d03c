package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

type MeHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP returns the caller's profile.
//
//	@Summary		Get the signed-in user
//	@Description	Returns the profile of the user the access token was issued to. Any role may call it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	ProfileResponse	"id, email, name, role, businessUnitId"
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		500	{object}	httpx.ErrorBody	"Internal server error"
//	@Router			/api/users/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromCtx(ctx)
	userID := claims.Subject
	if !ok || userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token has no subject")
		return
	}

	user, err := h.AccountService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Account deleted after the token was issued.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "unknown subject")
			return
		}
		log.Warn("failed to load user", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfile(user))
}
