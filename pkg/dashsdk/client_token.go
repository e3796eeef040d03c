package dashsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LoginGrant exchanges credentials for tokens.
//
// A 401 maps to ErrInvalidCredentials, or ErrMFARequired when the backend
// asks for a one-time code. Both wrap the underlying *APIError.
func (c *SDKClient) LoginGrant(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	resp, err := c.postJSON(ctx, c.Endpoints.Login, req)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.Code == ErrorCodeMFARequired:
				return nil, fmt.Errorf("%w: %w", ErrMFARequired, apiErr)
			case apiErr.StatusCode == http.StatusUnauthorized,
				apiErr.Code == ErrorCodeInvalidCredentials:
				return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
			}
		}
		return nil, err
	}

	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, fmt.Errorf("%w: login response has no accessToken", ErrMalformedResponse)
	}
	if strings.TrimSpace(tok.Role) == "" {
		return nil, fmt.Errorf("%w: login response has no role", ErrMalformedResponse)
	}
	return &tok, nil
}

// RefreshGrant exchanges a refresh token for new tokens. A 400 or 401 maps
// to ErrRefreshRejected wrapping the *APIError.
func (c *SDKClient) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	resp, err := c.postJSON(ctx, c.Endpoints.Refresh, RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", ErrRefreshRejected, apiErr)
		}
		return nil, err
	}

	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, fmt.Errorf("%w: refresh response has no accessToken", ErrMalformedResponse)
	}
	return &tok, nil
}

// FetchProfile reads the profile of the user owning accessToken.
func (c *SDKClient) FetchProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(c.Endpoints.Me), nil)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: send request: %w", err)
	}

	var profile UserProfile
	if err := decodeJSON(resp, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
