package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/idx"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

type TokenService struct {
	Accounts   *AccountService
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login authenticates the user and issues an access token plus a fresh
// refresh token.
func (s *TokenService) Login(ctx context.Context, email, password, otp string) (*domain.TokenPair, error) {
	u, err := s.Accounts.Authenticate(ctx, email, password, otp)
	if err != nil {
		return nil, err
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issue(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("login", "user_id", u.ID, "role", u.Role)
	return pair, nil
}

// ExchangeRefreshToken rotates a refresh token: the presented token is
// revoked and a new pair is issued in the same transaction. The role is
// re-read so role changes show up on the next refresh.
func (s *TokenService) ExchangeRefreshToken(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	if refreshOpaque == "" {
		return nil, ErrInvalidRefresh
	}
	now := s.now()
	fp := cryptox.FingerprintToken(refreshOpaque)

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rt.Revoked || now.After(rt.ExpiresAt) {
			return ErrInvalidRefresh
		}

		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		pair, err = s.issue(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *TokenService) issue(ctx context.Context, tx store.Tx, u domain.User) (*domain.TokenPair, error) {
	now := s.now()

	claims := jwtx.NewAccessClaims(u.ID, u.Role, u.BusinessUnitID, u.Email, s.AccessTTL, s.Issuer, now)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	rt := domain.RefreshToken{
		ID:        idx.NewAt(now).String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshOpaque,
		ExpiresIn:    s.AccessTTL,
		Role:         u.Role,
		UserID:       u.ID,
	}, nil
}
