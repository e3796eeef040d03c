package dashsdk_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
)

const testPassword = "correct horse"

// fakeBackend implements just enough of the backend contract to drive a
// Manager. Tokens are sequential strings; refresh tokens rotate.
type fakeBackend struct {
	srv *httptest.Server

	mu           sync.Mutex
	seq          int
	role         string
	expiresIn    int64
	totpSecret   string
	noRotate     bool
	failProfile  bool
	always401    atomic.Bool
	refreshDelay time.Duration
	access       map[string]bool
	refresh      map[string]bool

	logins    atomic.Int32
	refreshes atomic.Int32
	calls     atomic.Int32
}

// backendOption tweaks a fakeBackend before its server starts.
type backendOption func(*fakeBackend)

func withExpiresIn(sec int64) backendOption { return func(fb *fakeBackend) { fb.expiresIn = sec } }
func withTOTP(secret string) backendOption { return func(fb *fakeBackend) { fb.totpSecret = secret } }
func withoutRotation() backendOption { return func(fb *fakeBackend) { fb.noRotate = true } }
func withBrokenProfile() backendOption { return func(fb *fakeBackend) { fb.failProfile = true } }

func withRefreshDelay(d time.Duration) backendOption {
	return func(fb *fakeBackend) { fb.refreshDelay = d }
}

func newFakeBackend(t *testing.T, role string, opts ...backendOption) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		role:      role,
		expiresIn: 3600,
		access:    map[string]bool{},
		refresh:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(fb)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", fb.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", fb.handleRefresh)
	mux.HandleFunc("GET /api/users/me", fb.handleMe)
	mux.HandleFunc("/api/echo", fb.authed(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_, _ = w.Write(b)
	}))
	mux.HandleFunc("GET /api/shifts", fb.authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, fmt.Sprintf(`[
			{"id":"s1","staffId":"u1","staffName":"Ada","start":1767258000,"end":"2026-01-01T17:00:00Z","role":"BAR"},
			{"id":"s2","staffId":"u2","staffName":"Lin","start":[2026,1,2,9,30],"end":1767365400000,"notes":%q}
		]`, r.URL.RawQuery))
	}))
	mux.HandleFunc("GET /api/consumption-items", fb.authed(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"i1","name":"Cola","category":"drinks","unitPrice":2.5,"active":true,"updatedAt":"2026-01-01 08:00:00"}]`)
	}))
	mux.HandleFunc("GET /api/payroll/summary", fb.authed(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"periodStart":"2026-01-01","periodEnd":[2026,1,14],
			"lines":[{"staffId":"u1","staffName":"Ada","hours":10,"rate":30,"gross":300}],
			"totalHours":10,"totalGross":300}`)
	}))

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) newManager(opts ...dashsdk.Option) (*dashsdk.Manager, *sessionstore.MemoryStore) {
	store := sessionstore.NewMemoryStore()
	return dashsdk.NewManager(dashsdk.NewSDKClient(fb.srv.URL), store, opts...), store
}

func (fb *fakeBackend) issue(w http.ResponseWriter, spent string) {
	fb.mu.Lock()
	fb.seq++
	access := fmt.Sprintf("access-%d", fb.seq)
	fb.access[access] = true
	resp := map[string]any{"accessToken": access, "role": fb.role, "userId": "user-1"}
	if fb.expiresIn > 0 {
		resp["expiresIn"] = fb.expiresIn
	}
	if spent == "" || !fb.noRotate {
		next := fmt.Sprintf("refresh-%d", fb.seq)
		fb.refresh[next] = true
		resp["refreshToken"] = next
	}
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (fb *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	fb.logins.Add(1)
	var req dashsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request", "bad body")
		return
	}
	if req.Password != testPassword {
		writeErr(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if fb.totpSecret != "" && !cryptox.ValidateTOTP(req.OTP, fb.totpSecret) {
		writeErr(w, http.StatusUnauthorized, "mfa_required", "a one-time code is required")
		return
	}
	fb.issue(w, "")
}

func (fb *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	fb.refreshes.Add(1)
	if fb.refreshDelay > 0 {
		time.Sleep(fb.refreshDelay)
	}
	var req dashsdk.RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	fb.mu.Lock()
	ok := fb.refresh[req.RefreshToken]
	if ok && !fb.noRotate {
		delete(fb.refresh, req.RefreshToken)
	}
	fb.mu.Unlock()
	if !ok {
		writeErr(w, http.StatusUnauthorized, "invalid_grant", "refresh token is invalid or expired")
		return
	}
	fb.issue(w, req.RefreshToken)
}

func (fb *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	if fb.failProfile {
		writeErr(w, http.StatusInternalServerError, "server_error", "boom")
		return
	}
	if !fb.validBearer(r) {
		writeErr(w, http.StatusUnauthorized, "invalid_token", "")
		return
	}
	writeJSON(w, http.StatusOK, dashsdk.UserProfile{
		ID: "user-1", Email: "ada@example.com", Name: "Ada", Role: "ignored", BusinessUnitID: "bu-1",
	})
}

func (fb *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		if fb.always401.Load() || !fb.validBearer(r) {
			writeErr(w, http.StatusUnauthorized, "invalid_token", "access token expired")
			return
		}
		next(w, r)
	}
}

func (fb *fakeBackend) validBearer(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.access[token]
}

// revokeAccess invalidates every issued access token.
func (fb *fakeBackend) revokeAccess() {
	fb.mu.Lock()
	fb.access = map[string]bool{}
	fb.mu.Unlock()
}

func (fb *fakeBackend) setExpiresIn(sec int64) {
	fb.mu.Lock()
	fb.expiresIn = sec
	fb.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, desc string) {
	writeJSON(w, status, dashsdk.ErrorResponse{Error: code, ErrorDescription: desc})
}
