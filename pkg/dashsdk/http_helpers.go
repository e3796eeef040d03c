package dashsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// url joins path onto the base URL. Absolute URLs pass through.
func (c *SDKClient) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// resolve points a request with a relative URL at the base URL.
func (c *SDKClient) resolve(u *url.URL) (*url.URL, error) {
	if u.IsAbs() {
		return u, nil
	}
	base, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("dashsdk: invalid base url: %w", err)
	}
	ref := *u
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return base.ResolveReference(&ref), nil
}

// postJSON sends body as JSON without an Authorization header.
func (c *SDKClient) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("dashsdk: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: send request: %w", err)
	}
	return resp, nil
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dashsdk: read response body: %w", err)
	}
	return b, nil
}

// decodeJSON decodes a 2xx body into target. Any other status becomes an
// *APIError.
func decodeJSON(resp *http.Response, target any) error {
	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// discard closes a response whose body is not needed.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
