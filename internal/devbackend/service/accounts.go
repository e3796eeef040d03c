package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

type AccountService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

// Authenticate checks email and password, then the one-time code for users
// enrolled in TOTP. Unknown emails and wrong passwords are indistinguishable.
func (s *AccountService) Authenticate(ctx context.Context, email, password, otp string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		l.Info("password check failed", "user_id", u.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	if u.RequiresOTP() && !cryptox.ValidateTOTP(strings.TrimSpace(otp), u.TOTPSecret) {
		l.Info("one-time code missing or invalid", "user_id", u.ID, "otp_supplied", otp != "")
		return domain.User{}, ErrMFARequired
	}

	return u, nil
}

// GetUserByID fetches a user by id.
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}
