// Package cli implements shiftctl, a terminal client for the dashboard
// backend built on the dashsdk session manager.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

// Version is reported by --version.
const Version = "v0.1.0"

// env is the state shared by every command of one invocation.
type env struct {
	cfg     Config
	store   sessionstore.Store
	manager *dashsdk.Manager
	json    bool
}

// NewRootCommand returns the shiftctl command tree. When cfg is nil the
// configuration is read from the environment (after loading .env files)
// before any command runs.
func NewRootCommand(cfg *Config) *cobra.Command {
	e := &env{}
	var (
		envFiles  []string
		apiURL    string
		storeKind string
	)

	root := &cobra.Command{
		Use:   "shiftctl",
		Short: "Shiftboard dashboard client",
		Long: `shiftctl signs in to the shiftboard backend and keeps the session fresh
between invocations. Sessions are persisted in the configured store and
refreshed automatically shortly before they expire.

Only ADMIN and MANAGER accounts may read roster, catalog and payroll data.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg != nil {
				e.cfg = *cfg
			} else {
				if err := LoadDotEnv(envFiles...); err != nil {
					return fmt.Errorf("load env files: %w", err)
				}
				e.cfg = LoadConfig()
			}
			if apiURL != "" {
				e.cfg.APIURL = apiURL
			}
			if storeKind != "" {
				e.cfg.SessionStore = storeKind
			}

			logger := slogx.New(slogx.Config{
				Service: "shiftctl",
				Version: Version,
				Env:     e.cfg.Env,
				Level:   e.cfg.LogLevel,
				Format:  e.cfg.LogFormat,
				Output:  cmd.ErrOrStderr(),
			})
			cmd.SetContext(slogx.WithContext(cmd.Context(), logger))

			store, err := OpenStore(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			e.store = store

			mgr, err := NewManager(e.cfg, store, logger)
			if err != nil {
				return err
			}
			e.manager = mgr
			mgr.Restore(cmd.Context())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.store == nil {
				return nil
			}
			return e.store.Close()
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "load variables from these files instead of ./.env")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides SHIFTBOARD_API_URL)")
	root.PersistentFlags().StringVar(&storeKind, "store", "", "session store: file, sqlite, redis or memory")
	root.PersistentFlags().BoolVar(&e.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		newLoginCommand(e),
		newLogoutCommand(e),
		newStatusCommand(e),
		newRefreshCommand(e),
		newRequestCommand(e),
		newShiftsCommand(e),
		newItemsCommand(e),
		newPayrollCommand(e),
		newWatchCommand(e),
	)
	return root
}
