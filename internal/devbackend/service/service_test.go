package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store/drivers/sqlite"
	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

const (
	testIssuer   = "shiftboard-test"
	testPassword = "hunter2hunter2"
)

type fixture struct {
	store    *sqlite.Store
	tokens   *service.TokenService
	roster   *service.RosterService
	verifier jwtx.Verifier
	now      time.Time
}

// newFixture seeds a fresh database anchored at Wednesday 2026-01-07 10:00 UTC.
func newFixture(t *testing.T, totpSecret string) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	hasher := cryptox.NewHasher("")
	now := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)
	seed := &service.SeedService{
		Store: st, Hasher: hasher, Password: testPassword,
		AdminTOTPSecret: totpSecret, Now: func() time.Time { return now },
	}
	seeded, err := seed.Seed(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return &fixture{
		store: st,
		tokens: &service.TokenService{
			Accounts:   &service.AccountService{Store: st, Hasher: hasher},
			Signer:     signer,
			Store:      st,
			Issuer:     testIssuer,
			AccessTTL:  jwtx.DefaultAccessTokenTTL,
			RefreshTTL: jwtx.DefaultRefreshTokenTTL,
		},
		roster:   &service.RosterService{Store: st},
		verifier: jwtx.NewVerifierEdDSA(keys, testIssuer),
		now:      now,
	}
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	pair, err := f.tokens.Login(ctx, service.ManagerEmail, testPassword, "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, pair.Role)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, pair.ExpiresIn)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := f.verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, pair.UserID, claims.Subject)
	require.Equal(t, domain.RoleManager, claims.Role)
	require.Equal(t, service.ManagerEmail, claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	for name, creds := range map[string][2]string{
		"wrong password": {service.StaffEmail, "nope"},
		"unknown email":  {"ghost@shiftboard.dev", testPassword},
		"empty email":    {"", testPassword},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.tokens.Login(ctx, creds[0], creds[1], "")
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestLoginWithTOTP(t *testing.T) {
	t.Parallel()
	enrol, err := cryptox.GenerateTOTP("shiftboard", service.AdminEmail)
	require.NoError(t, err)
	f := newFixture(t, enrol.Secret)
	ctx := context.Background()

	_, err = f.tokens.Login(ctx, service.AdminEmail, testPassword, "")
	require.ErrorIs(t, err, service.ErrMFARequired)

	_, err = f.tokens.Login(ctx, service.AdminEmail, testPassword, "000000x")
	require.ErrorIs(t, err, service.ErrMFARequired)

	code, err := cryptox.TOTPCode(enrol.Secret, time.Now())
	require.NoError(t, err)
	pair, err := f.tokens.Login(ctx, service.AdminEmail, testPassword, code)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, pair.Role)

	// Other accounts are not enrolled.
	_, err = f.tokens.Login(ctx, service.ManagerEmail, testPassword, "")
	require.NoError(t, err)
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	first, err := f.tokens.Login(ctx, service.StaffEmail, testPassword, "")
	require.NoError(t, err)

	second, err := f.tokens.ExchangeRefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = f.tokens.ExchangeRefreshToken(ctx, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	_, err = f.tokens.ExchangeRefreshToken(ctx, "")
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	_, err = f.tokens.ExchangeRefreshToken(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshReflectsRoleChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	pair, err := f.tokens.Login(ctx, service.StaffEmail, testPassword, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().UpdateRole(ctx, pair.UserID, domain.RoleManager))

	next, err := f.tokens.ExchangeRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, next.Role)
}

func TestRefreshExpired(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	pair, err := f.tokens.Login(ctx, service.ManagerEmail, testPassword, "")
	require.NoError(t, err)

	expired := *f.tokens
	expired.Now = func() time.Time { return time.Now().Add(jwtx.DefaultRefreshTokenTTL + time.Hour) }
	_, err = expired.ExchangeRefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestHousekeepingPurgesSpentTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	pair, err := f.tokens.Login(ctx, service.ManagerEmail, testPassword, "")
	require.NoError(t, err)
	_, err = f.tokens.ExchangeRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)

	hk := service.NewHousekeepingService(f.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Cleanup(ctx)

	_, err = f.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.Error(t, err)

	hk.Start()
	hk.Stop()
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	seed := &service.SeedService{Store: f.store, Hasher: cryptox.NewHasher(""), Password: "x"}
	seeded, err := seed.Seed(context.Background())
	require.NoError(t, err)
	require.False(t, seeded)
}

func TestRoster(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	nextMonday := monday.AddDate(0, 0, 7)

	shifts, err := f.roster.ListShifts(ctx, monday, nextMonday)
	require.NoError(t, err)
	require.Len(t, shifts, 11)

	_, err = f.roster.ListShifts(ctx, nextMonday, monday)
	require.ErrorIs(t, err, service.ErrInvalidPeriod)

	items, err := f.roster.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)

	sum, err := f.roster.Payroll(ctx, monday, nextMonday)
	require.NoError(t, err)
	require.Len(t, sum.Lines, 2)
	require.Equal(t, "Morgan Manager", sum.Lines[0].StaffName)
	require.InDelta(t, 32, sum.Lines[0].Hours, 0.001)
	require.InDelta(t, 1232, sum.Lines[0].Gross, 0.001)
	require.Equal(t, "Sam Staff", sum.Lines[1].StaffName)
	require.InDelta(t, 52.5, sum.Lines[1].Hours, 0.001)
	require.InDelta(t, 1430.63, sum.Lines[1].Gross, 0.001)
	require.InDelta(t, 84.5, sum.TotalHours, 0.001)
	require.InDelta(t, 2662.63, sum.TotalGross, 0.001)

	_, err = f.roster.Payroll(ctx, time.Time{}, nextMonday)
	require.ErrorIs(t, err, service.ErrInvalidPeriod)
}
