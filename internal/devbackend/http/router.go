package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"

	_ "github.com/aussiebroadwan/shiftboard/api/devbackend" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits selects the rate-limit profile for each route group.
type Limits struct {
	Auth   httpx.RateLimitConfig // login and refresh, keyed by IP
	API    httpx.RateLimitConfig // business endpoints, keyed by user
	System httpx.RateLimitConfig // health probes, keyed by IP
}

// DefaultLimits uses the strict profile for credentials and the moderate and
// lenient profiles elsewhere.
func DefaultLimits() Limits {
	return Limits{
		Auth:   httpx.StrictLimit,
		API:    httpx.ModerateLimit,
		System: httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Limits Limits

	store          store.Store
	TokenService   *service.TokenService
	AccountService *service.AccountService
	RosterService  *service.RosterService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerRoster()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shiftboard Development Backend API
//	@version		0.1.0
//	@description	Stand-in for the dashboard REST backend. Issues EdDSA-signed access tokens and rotating opaque refresh tokens,
//	@description	and serves roster, catalog and payroll data with mixed timestamp encodings.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/shiftboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{TokenService: r.TokenService}

	// Keyed by IP + email so one address cannot spray a single account
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Auth, "email"),
		),
	)

	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.Limits.Auth),
		),
	)
}

func (r *Router) registerUsers() {
	h := &MeHandler{AccountService: r.AccountService}

	// Any authenticated role may read its own profile
	r.Mux.Handle("GET /api/users/me",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(r.Limits.API),
		),
	)
}

func (r *Router) registerRoster() {
	h := &RosterHandler{RosterService: r.RosterService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin, domain.RoleManager),
			httpx.RateLimitByUser(r.Limits.API),
		)
	}

	r.Mux.Handle("GET /api/shifts", secured(h.HandleShifts))
	r.Mux.Handle("GET /api/consumption-items", secured(h.HandleItems))
	r.Mux.Handle("GET /api/payroll/summary", secured(h.HandlePayroll))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.System),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.Limits.System),
		),
	)
}
