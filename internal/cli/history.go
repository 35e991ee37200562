package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command with its clear subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check records",
		Long: `List the most recent check records, newest first. The log keeps the
latest 50 completed checks.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Clear the check history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(rootOpts, cmd)
		},
	})

	return cmd
}

func runHistoryList(opts *RootOptions, cmd *cobra.Command) error {
	app := openApp(opts.cfg)
	defer app.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	checks := app.History.Checks()

	if opts.Format == "json" {
		return out.Success(checks)
	}

	if len(checks) == 0 {
		return out.Success("No checks recorded yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d checks recorded:", len(checks))
	for _, check := range checks {
		file := "-"
		if check.File != nil {
			file = check.File.Name
		}
		fmt.Fprintf(&b, "\n%s  pallet=%s boxes=%d items=%d  %s",
			check.Timestamp.Format("2006-01-02 15:04:05"),
			orDash(check.State.Pallet),
			check.Summary.Boxes,
			check.Summary.Items,
			file,
		)
	}
	return out.Success(b.String())
}

func runHistoryClear(opts *RootOptions, cmd *cobra.Command) error {
	app := openApp(opts.cfg)
	defer app.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app.History.Clear()
	app.SaveNow(ctx)

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return out.Success("Check history cleared.")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
