package dashsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes the backend uses in {error, error_description} bodies.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidGrant       = "invalid_grant"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeMFARequired        = "mfa_required"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

var (
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the email/password pair.
	ErrInvalidCredentials = errors.New("dashsdk: invalid email or password")

	// ErrMFARequired is returned by Login when the account needs a second
	// factor and none (or a wrong one) was supplied.
	ErrMFARequired = errors.New("dashsdk: one-time code required")

	// ErrNoRefreshToken is returned by Refresh when neither the caller nor
	// the stored session can supply a refresh token.
	ErrNoRefreshToken = errors.New("dashsdk: no refresh token available")

	// ErrRefreshRejected is returned when the backend refuses a refresh
	// token. The session is cleared before it is returned.
	ErrRefreshRejected = errors.New("dashsdk: refresh token rejected")

	// ErrNotAuthenticated is returned by authenticated calls made without a session.
	ErrNotAuthenticated = errors.New("dashsdk: not logged in")

	// ErrSessionChanged is returned by Refresh when the session was replaced
	// by Login, Logout or Sync while the refresh was in flight. The refreshed
	// tokens are discarded.
	ErrSessionChanged = errors.New("dashsdk: session changed during refresh")

	// ErrMalformedResponse is returned when a 2xx body lacks a required field.
	ErrMalformedResponse = errors.New("dashsdk: malformed response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int `json:"-"`

	// Code is the machine-readable error, e.g. "invalid_grant".
	Code string `json:"error"`

	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("dashsdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("dashsdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// UnauthorizedError is the denial produced for an authenticated user whose
// role is not on the allow-list.
type UnauthorizedError struct {
	Role    string
	Allowed []string
}

func (e *UnauthorizedError) Error() string {
	role := e.Role
	if strings.TrimSpace(role) == "" {
		role = "(none)"
	}
	return fmt.Sprintf("access denied: role %s is not permitted to use the dashboard (allowed: %s)",
		role, strings.Join(e.Allowed, ", "))
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not {error, error_description} JSON fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) *APIError {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	code := ErrorCodeServerError
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code = ErrorCodeInvalidToken
	case resp.StatusCode == http.StatusForbidden:
		code = ErrorCodeForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		code = ErrorCodeRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		code = ErrorCodeInvalidRequest
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
