package dashsdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
)

// DefaultRefreshWindow is how close to expiry a request triggers a refresh.
const DefaultRefreshWindow = 5 * time.Minute

// Manager owns one logical session. It is safe for concurrent use.
type Manager struct {
	client     *SDKClient
	store      sessionstore.Store
	policy     Policy
	window     time.Duration
	defaultTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu      sync.RWMutex
	session *Session
	gen     uint64 // bumped on every session replacement

	// storeMu orders store writes; a write from a superseded generation is dropped.
	storeMu sync.Mutex

	refreshes singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func WithRefreshWindow(d time.Duration) Option { return func(m *Manager) { m.window = d } }

func WithPolicy(p Policy) Option { return func(m *Manager) { m.policy = p } }

// WithDefaultTTL sets the lifetime assumed for access tokens that carry no
// expiry at all.
func WithDefaultTTL(d time.Duration) Option { return func(m *Manager) { m.defaultTTL = d } }

// NewManager creates a manager with no session. Call Restore to pick up a
// persisted one. A nil store keeps the session in memory only.
func NewManager(client *SDKClient, store sessionstore.Store, opts ...Option) *Manager {
	if store == nil {
		store = sessionstore.NewMemoryStore()
	}
	m := &Manager{
		client:     client,
		store:      store,
		policy:     DefaultPolicy(),
		window:     DefaultRefreshWindow,
		defaultTTL: jwtx.DefaultAccessTokenTTL,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns the underlying SDK client.
func (m *Manager) Client() *SDKClient { return m.client }

// ============================================================================
// Login
// ============================================================================

type loginOptions struct {
	otp        string
	totpSecret string
}

// LoginOption supplies a second factor to Login.
type LoginOption func(*loginOptions)

// WithOTP sends a one-time code with the credentials.
func WithOTP(code string) LoginOption {
	return func(o *loginOptions) { o.otp = strings.TrimSpace(code) }
}

// WithTOTPSecret derives the one-time code from a base32 TOTP secret at
// login time.
func WithTOTPSecret(secret string) LoginOption {
	return func(o *loginOptions) { o.totpSecret = strings.TrimSpace(secret) }
}

// Login authenticates with email and password and replaces any current
// session. A user whose role is not allowed still gets a session, with
// Authorized false and a Denial message.
func (m *Manager) Login(ctx context.Context, email, password string, opts ...LoginOption) (*Session, error) {
	var lo loginOptions
	for _, opt := range opts {
		opt(&lo)
	}
	if lo.otp == "" && lo.totpSecret != "" {
		code, err := cryptox.TOTPCode(lo.totpSecret, m.now())
		if err != nil {
			return nil, fmt.Errorf("dashsdk: totp: %w", err)
		}
		lo.otp = code
	}

	tok, err := m.client.LoginGrant(ctx, LoginRequest{Email: email, Password: password, OTP: lo.otp})
	if err != nil {
		return nil, err
	}
	expiresAt := m.resolveExpiry(tok)

	user, err := m.client.FetchProfile(ctx, tok.AccessToken)
	if err != nil {
		m.logger.Warn("profile_fetch_failed", "email", email, "err", err)
		user = &UserProfile{ID: tok.UserID, Email: email}
	}
	if user.ID == "" {
		user.ID = tok.UserID
	}
	if user.Email == "" {
		user.Email = email
	}
	// The login response is authoritative for the role.
	user.Role = tok.Role

	sess := m.newSession(*user, tok.AccessToken, tok.RefreshToken, expiresAt)
	m.writeStore(ctx, m.swap(sess), sess)

	m.logger.Info("login", "user_id", sess.User.ID, "role", sess.User.Role, "authorized", sess.Authorized)
	return sess.clone(), nil
}

// ============================================================================
// Refresh
// ============================================================================

// Refresh exchanges refreshToken, or the current session's refresh token
// when empty, for new tokens. Concurrent refreshes of the same token share
// one backend call. A rejected token clears the session. If the session is
// replaced by Login, Logout or Sync while the call is in flight, the result
// is discarded and ErrSessionChanged is returned.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	gen := m.generation()
	if refreshToken == "" {
		refreshToken = m.storedRefreshToken(ctx)
	}
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	return m.refresh(ctx, refreshToken, gen, false)
}

// refresh runs one refresh per spent token on behalf of a caller that saw
// generation gen. With reuseRotated, a caller holding a stale token adopts
// the session another caller already rotated to.
func (m *Manager) refresh(ctx context.Context, spent string, gen uint64, reuseRotated bool) (*Session, error) {
	ch := m.refreshes.DoChan(spent, func() (any, error) {
		if reuseRotated {
			m.mu.RLock()
			cur := m.session
			m.mu.RUnlock()
			if cur != nil && cur.RefreshToken != spent {
				return cur, nil
			}
		}
		if m.generation() != gen {
			return nil, ErrSessionChanged
		}
		// The flight outlives the caller that started it; the HTTP client
		// timeout still bounds it.
		return m.doRefresh(context.WithoutCancel(ctx), spent, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			m.logger.Debug("refresh_shared")
		}
		return res.Val.(*Session).clone(), nil
	}
}

func (m *Manager) doRefresh(ctx context.Context, spent string, gen uint64) (*Session, error) {
	tok, err := m.client.RefreshGrant(ctx, spent)
	if err != nil {
		if errors.Is(err, ErrRefreshRejected) {
			m.logger.Warn("refresh_rejected", "err", err)
			m.clearIfSpent(ctx, spent, gen)
		}
		return nil, err
	}

	base := m.baseProfile(ctx)
	if tok.Role != "" {
		base.Role = tok.Role
	}
	if base.ID == "" {
		base.ID = tok.UserID
	}
	next := tok.RefreshToken
	if next == "" {
		next = spent
	}

	sess := m.newSession(base, tok.AccessToken, next, m.resolveExpiry(tok))
	installed, ok := m.swapIf(gen, sess)
	if !ok {
		m.logger.Info("refresh_discarded", "user_id", sess.User.ID)
		return nil, ErrSessionChanged
	}
	m.writeStore(ctx, installed, sess)

	m.logger.Debug("refreshed", "user_id", sess.User.ID, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// storedRefreshToken returns the in-memory refresh token, falling back to
// the persisted record.
func (m *Manager) storedRefreshToken(ctx context.Context) string {
	m.mu.RLock()
	cur := m.session
	m.mu.RUnlock()
	if cur != nil {
		return cur.RefreshToken
	}
	rec, err := m.store.Load(ctx)
	if err != nil {
		return ""
	}
	return rec.RefreshToken
}

// baseProfile is the profile a refreshed session inherits.
func (m *Manager) baseProfile(ctx context.Context) UserProfile {
	m.mu.RLock()
	cur := m.session
	m.mu.RUnlock()
	if cur != nil {
		return cur.User
	}
	if rec, err := m.store.Load(ctx); err == nil {
		return rec.User
	}
	return UserProfile{}
}

// clearIfSpent drops the session unless it was replaced since gen or has
// already moved past spent.
func (m *Manager) clearIfSpent(ctx context.Context, spent string, gen uint64) {
	m.mu.Lock()
	if m.gen != gen || (m.session != nil && m.session.RefreshToken != spent) {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.gen++
	cleared := m.gen
	m.mu.Unlock()
	m.writeStore(ctx, cleared, nil)
}

// ============================================================================
// Lifecycle
// ============================================================================

// Logout drops the session from memory and storage. It never fails; store
// errors are logged. A refresh still in flight is discarded.
func (m *Manager) Logout(ctx context.Context) {
	m.writeStore(ctx, m.swap(nil), nil)
	m.logger.Info("logout")
}

// Restore loads the persisted session. An expired session gets one refresh
// attempt. Returns nil, with the session cleared, when nothing usable is
// stored.
func (m *Manager) Restore(ctx context.Context) *Session {
	gen := m.generation()
	rec, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrNotFound) {
			m.logger.Warn("session_restore_failed", "err", err)
			m.dropIf(ctx, gen)
		}
		return nil
	}

	sess := m.fromRecord(rec)
	gen, ok := m.swapIf(gen, sess)
	if !ok {
		return m.Session()
	}

	if !sess.Expired(m.now()) {
		return sess.clone()
	}

	if sess.RefreshToken == "" {
		m.logger.Info("session_expired", "user_id", sess.User.ID)
		m.dropIf(ctx, gen)
		return nil
	}

	refreshed, err := m.refresh(ctx, sess.RefreshToken, gen, false)
	if errors.Is(err, ErrSessionChanged) {
		return m.Session()
	}
	if err != nil {
		m.logger.Warn("session_restore_refresh_failed", "err", err)
		m.dropIf(ctx, gen)
		return nil
	}
	return refreshed
}

// Sync reloads in-memory state from the store so changes made by another
// process are picked up.
func (m *Manager) Sync(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, sessionstore.ErrNotFound):
		m.mu.Lock()
		if m.session != nil {
			m.session = nil
			m.gen++
		}
		m.mu.Unlock()
		return nil
	case err != nil:
		return fmt.Errorf("dashsdk: sync session: %w", err)
	}

	sess := m.fromRecord(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil && m.session.AccessToken == sess.AccessToken {
		return nil
	}
	m.gen++
	sess.gen = m.gen
	m.session = sess
	return nil
}

// dropIf clears the session unless it was replaced since gen.
func (m *Manager) dropIf(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.gen++
	cleared := m.gen
	m.mu.Unlock()
	m.writeStore(ctx, cleared, nil)
}

// swap installs sess unconditionally and returns its generation.
func (m *Manager) swap(sess *Session) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	if sess != nil {
		sess.gen = m.gen
	}
	m.session = sess
	return m.gen
}

// swapIf installs sess only while the generation is still gen.
func (m *Manager) swapIf(gen uint64, sess *Session) (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return 0, false
	}
	m.gen++
	sess.gen = m.gen
	m.session = sess
	return m.gen, true
}

func (m *Manager) generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// writeStore saves sess, or clears the store when sess is nil, unless the
// session has been replaced since gen.
func (m *Manager) writeStore(ctx context.Context, gen uint64, sess *Session) {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if m.generation() != gen {
		return
	}
	if sess == nil {
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Error("session_clear_failed", "err", err)
		}
		return
	}
	if err := m.store.Save(ctx, sess.record()); err != nil {
		m.logger.Error("session_save_failed", "err", err)
	}
}

// ============================================================================
// Accessors
// ============================================================================

// Session returns a snapshot of the current session, or nil.
func (m *Manager) Session() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.clone()
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}

func (m *Manager) IsAuthorized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil && m.session.Authorized
}

// ============================================================================
// Helpers
// ============================================================================

func (m *Manager) newSession(user UserProfile, access, refresh string, expiresAt time.Time) *Session {
	sess := &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Authorized:   true,
	}
	if err := m.policy.Check(user.Role); err != nil {
		sess.Authorized = false
		sess.Denial = err.Error()
	}
	return sess
}

func (m *Manager) fromRecord(rec sessionstore.Record) *Session {
	return m.newSession(rec.User, rec.Token, rec.RefreshToken, rec.ExpiresAt.Time)
}

// resolveExpiry prefers expiresIn, then the token's exp claim, then the
// default TTL.
func (m *Manager) resolveExpiry(tok *TokenResponse) time.Time {
	now := m.now()
	if tok.ExpiresIn > 0 {
		return now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if exp, err := jwtx.PeekExpiry(tok.AccessToken); err == nil {
		return exp
	}
	return now.Add(m.defaultTTL)
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
