package dashsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Do sends req with the session's bearer token.
//
// When the access token is inside the refresh window it is refreshed first.
// A 401 triggers exactly one refresh and one retry; whatever the retry
// returns goes back to the caller. Requests with a body are only retried
// when req.GetBody is set. Relative URLs resolve against the client's base
// URL.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	sess, err := m.usable()
	if err != nil {
		return nil, err
	}

	if sess.ExpiresWithin(m.now(), m.window) {
		if sess, err = m.renew(ctx, sess); err != nil {
			return nil, err
		}
	}

	resp, err := m.send(req, sess.AccessToken, false)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}
	discard(resp)

	m.logger.Debug("retry_after_unauthorized", "path", req.URL.Path)
	if sess, err = m.renew(ctx, sess); err != nil {
		return nil, err
	}
	return m.send(req, sess.AccessToken, true)
}

// Request builds and sends an authenticated request. body may be nil, an
// io.Reader, a []byte, or any value to encode as JSON.
func (m *Manager) Request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var (
		payload     []byte
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case []byte:
		payload, contentType = b, "application/json"
	case io.Reader:
		raw, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("dashsdk: read request body: %w", err)
		}
		payload = raw
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("dashsdk: encode request: %w", err)
		}
		payload, contentType = raw, "application/json"
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.client.url(path), rd)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return m.Do(req)
}

// getJSON performs an authenticated GET and decodes a 2xx body into out.
func (m *Manager) getJSON(ctx context.Context, path string, out any) error {
	resp, err := m.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// usable returns the current session if it may make privileged calls.
func (m *Manager) usable() (*Session, error) {
	sess := m.Session()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if !sess.Authorized {
		return nil, m.policy.Check(sess.User.Role)
	}
	return sess, nil
}

// renew refreshes the token held by sess unless another caller already
// rotated it, then re-checks authorization. When the session was replaced
// mid-refresh the current one is used instead.
func (m *Manager) renew(ctx context.Context, sess *Session) (*Session, error) {
	if sess.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	next, err := m.refresh(ctx, sess.RefreshToken, sess.gen, true)
	if errors.Is(err, ErrSessionChanged) {
		return m.usable()
	}
	if err != nil {
		return nil, err
	}
	if !next.Authorized {
		return nil, m.policy.Check(next.User.Role)
	}
	return next, nil
}

// send clones req, attaches the bearer token and sends it. replay rewinds
// the body through GetBody.
func (m *Manager) send(req *http.Request, token string, replay bool) (*http.Response, error) {
	out := req.Clone(req.Context())
	u, err := m.client.resolve(req.URL)
	if err != nil {
		return nil, err
	}
	out.URL = u
	out.Host = ""
	out.Header.Set("Authorization", "Bearer "+token)

	if req.GetBody != nil && (replay || req.Body == nil) {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("dashsdk: rewind request body: %w", err)
		}
		out.Body = body
	}

	resp, err := m.client.HTTPClient.Do(out)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: send request: %w", err)
	}
	return resp, nil
}
