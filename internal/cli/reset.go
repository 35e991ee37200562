package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Snapshot the current check and clear the session",
		Long: `Clear the scan session back to idle.

If the session has any progress (a selected pallet or scanned items), it is
first captured as a check record in the history.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := openApp(rootOpts.cfg)
			defer app.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			displaced := app.Session.Reset()
			app.Snapshot(displaced)
			app.SaveNow(ctx)

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if displaced != nil {
				return out.Success(fmt.Sprintf("Check recorded (%d items) and session cleared", len(displaced.Items)))
			}
			return out.Success("Session was already idle")
		},
	}
	return cmd
}
