package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekClaims decodes the claims of a JWT without verifying its signature.
// Clients use this to read exp and role from a token they were just handed
// by the backend; never use it to make trust decisions.
func PeekClaims(token string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// PeekExpiry returns the exp claim of an unverified token.
func PeekExpiry(token string) (time.Time, error) {
	claims, err := PeekClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
