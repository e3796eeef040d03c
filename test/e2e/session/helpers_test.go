package session_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/app"
	httpapi "github.com/aussiebroadwan/shiftboard/internal/devbackend/http"
	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/file"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

/*
 * End-to-end tests run the development backend in-process and drive it
 * through dashsdk.Manager, the way the CLI does.
 */

const (
	seedPassword = "e2e-password"
	accessTTL    = 15 * time.Minute
)

// backend wraps the development backend so tests can count refresh calls
// and force 401 responses.
type backend struct {
	URL string

	refreshes atomic.Int64
	always401 atomic.Bool
	revoked   sync.Map // access token -> struct{}
}

type backendOption func(*app.Config)

func withAdminTOTP(secret string) backendOption {
	return func(c *app.Config) { c.AdminTOTPSecret = secret }
}

func startBackend(t *testing.T, opts ...backendOption) *backend {
	t.Helper()
	relaxed := httpapi.Limits{Auth: httpx.PublicLimit, API: httpx.PublicLimit, System: httpx.PublicLimit}

	cfg := app.Config{
		Issuer:              "e2e",
		AccessTTL:           accessTTL,
		RefreshTTL:          24 * time.Hour,
		SeedPassword:        seedPassword,
		DatabaseFile:        filepath.Join(t.TempDir(), "backend.db"),
		Env:                 "test",
		LogLevel:            "error",
		ShutdownGracePeriod: time.Second,
		LogOutput:           io.Discard,
		Limits:              &relaxed,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	b := &backend{}
	inner := a.Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			b.refreshes.Add(1)
		}
		if strings.HasPrefix(r.URL.Path, "/api/") && !strings.HasPrefix(r.URL.Path, "/api/auth/") {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if _, gone := b.revoked.Load(token); gone || b.always401.Load() {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token revoked")
				return
			}
		}
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	b.URL = srv.URL
	return b
}

func (b *backend) revoke(token string) { b.revoked.Store(token, struct{}{}) }

// clock is a manager clock that can be moved forward.
type clock struct{ offset atomic.Int64 }

func (c *clock) now() time.Time          { return time.Now().Add(time.Duration(c.offset.Load())) }
func (c *clock) advance(d time.Duration) { c.offset.Add(int64(d)) }

func fileStore(t *testing.T) *file.Store {
	t.Helper()
	s, err := file.New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return s
}

func newManager(b *backend, store sessionstore.Store, c *clock) *dashsdk.Manager {
	opts := []dashsdk.Option{dashsdk.WithLogger(slogx.Discard())}
	if c != nil {
		opts = append(opts, dashsdk.WithClock(c.now))
	}
	return dashsdk.NewManager(dashsdk.NewSDKClient(b.URL), store, opts...)
}
