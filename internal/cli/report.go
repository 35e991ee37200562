package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/aggcheck/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	OutDir string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the audit report",
		Long: `Render the plain-text audit report: data file details, aggregate
stats, the latest check with its scanned item list, and the most recent
checks.

With --export the report is written to a file named after the manifest and
the current date; otherwise it is printed to stdout. With --format json the
underlying report data is emitted instead of the rendered text.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "export", "", "write the report into this directory")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	app := openApp(opts.cfg)
	defer app.Close()

	rep := app.History.Report(app.Index.Stats())
	now := time.Now()

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return out.Success(rep)
	}

	text := report.Render(rep, now)
	if opts.OutDir == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	name := report.Filename(rep.LastFile, now)
	path := filepath.Join(opts.OutDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}
