package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/file"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/redis"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/sqlite"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

// OpenStore opens the session store selected by cfg.SessionStore.
func OpenStore(ctx context.Context, cfg Config) (sessionstore.Store, error) {
	switch driver := strings.ToLower(strings.TrimSpace(cfg.SessionStore)); driver {
	case "", "file":
		path := cfg.SessionFile
		if path == "" {
			def, err := file.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = def
		}
		return file.New(path)

	case "sqlite":
		path := cfg.SessionDB
		if path == "" {
			def, err := file.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(filepath.Dir(def), "session.db")
		}
		s, err := sqlite.NewStore(path, cfg.SessionKey)
		if err != nil {
			return nil, fmt.Errorf("open session db: %w", err)
		}
		if err := s.ApplyMigrations(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrate session db: %w", err)
		}
		return s, nil

	case "redis":
		return redis.Dial(ctx, cfg.RedisAddr, redis.Options{Key: cfg.SessionKey})

	case "memory":
		return sessionstore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown session store %q (want file, sqlite, redis or memory)", driver)
	}
}

// NewManager builds the SDK client and session manager described by cfg.
func NewManager(cfg Config, store sessionstore.Store, logger *slog.Logger) (*dashsdk.Manager, error) {
	client := dashsdk.NewSDKClient(cfg.APIURL)
	client.HTTPClient.Transport = slogx.NewTransport(nil, logger)
	if cfg.HTTPTimeout > 0 {
		client.HTTPClient.Timeout = cfg.HTTPTimeout
	}
	if cfg.EndpointsFile != "" {
		eps, err := dashsdk.LoadEndpoints(cfg.EndpointsFile)
		if err != nil {
			return nil, err
		}
		client.Endpoints = eps
	}

	opts := []dashsdk.Option{dashsdk.WithLogger(logger)}
	if cfg.RefreshWindow > 0 {
		opts = append(opts, dashsdk.WithRefreshWindow(cfg.RefreshWindow))
	}
	return dashsdk.NewManager(client, store, opts...), nil
}
