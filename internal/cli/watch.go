package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore/drivers/file"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
)

func newWatchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow logins and logouts made by other shiftctl processes",
		Long: `Watch the session file and print the session whenever another process
logs in, refreshes or logs out. Only the file store supports watching.
Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileStore, ok := e.store.(*file.Store)
			if !ok {
				return fmt.Errorf("watch needs the file session store, not %q", e.cfg.SessionStore)
			}

			ctx := cmd.Context()
			log := slogx.FromContext(ctx)
			out := cmd.OutOrStdout()

			if err := printSession(out, e.json, e.manager.Session()); err != nil {
				return err
			}
			return fileStore.Watch(ctx, func(c file.Change) {
				if err := e.manager.Sync(ctx); err != nil {
					log.Warn("session sync failed", "change", c.String(), "err", err)
					return
				}
				if !e.json {
					fmt.Fprintf(out, "-- session %s\n", c)
				}
				_ = printSession(out, e.json, e.manager.Session())
			})
		},
	}
}
