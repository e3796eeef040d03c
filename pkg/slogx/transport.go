package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/idx"
)

// Transport is the client-side twin of HTTPMiddleware: it stamps each
// outgoing request with an X-Request-ID and logs the round trip at debug.
// Authorization headers are never logged.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = FromContext(req.Context())
	}

	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = idx.New().String()
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	log := logger.With(
		"req_id", reqID,
		"method", req.Method,
		"path", req.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		log.Debug("http_client_error", "err", err)
		return nil, err
	}
	log.Debug("http_client_request", "status", resp.StatusCode)
	return resp, nil
}
