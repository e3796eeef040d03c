package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/shiftboard/internal/devbackend/http"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store"
	"github.com/aussiebroadwan/shiftboard/internal/devbackend/store/drivers/sqlite"
	"github.com/aussiebroadwan/shiftboard/pkg/cryptox"
	"github.com/aussiebroadwan/shiftboard/pkg/jwtx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the development backend together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer jwtx.Signer
	keys   *jwtx.KeySet
	hasher *cryptox.Hasher

	accountService      *service.AccountService
	tokenService        *service.TokenService
	rosterService       *service.RosterService
	housekeepingService *service.HousekeepingService
	housekeepingStarted bool

	server *http.Server
	router *httpapi.Router
}

// New opens the database, seeds it when empty and builds the router.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "devbackend",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	pepper := ""
	if cfg.PepperFile != "" {
		p, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
		if err != nil {
			return nil, err
		}
		pepper = p
	}
	app.hasher = cryptox.NewHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, err := InitSigningKey(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.signer, app.keys = signer, keys

	app.initServices()
	if err := app.seed(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler for in-process use.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.housekeepingStarted = true

	app.logger.Info("devbackend starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down devbackend...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingStarted {
		app.housekeepingService.Stop()
		app.housekeepingStarted = false
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("devbackend stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{Store: app.db, Hasher: app.hasher}
	app.tokenService = &service.TokenService{
		Accounts:   app.accountService,
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.rosterService = &service.RosterService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) seed() error {
	seeder := &service.SeedService{
		Store:           app.db,
		Hasher:          app.hasher,
		Password:        app.cfg.SeedPassword,
		AdminTOTPSecret: app.cfg.AdminTOTPSecret,
	}
	ctx := slogx.WithContext(context.Background(), app.logger)
	if _, err := seeder.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer),
		BuildVersion,
		app.db,
		app.logger,
	)
	if app.cfg.Limits != nil {
		router.Limits = *app.cfg.Limits
	}

	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.RosterService = app.rosterService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
