package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/aggcheck/internal/history"
	"github.com/roach88/aggcheck/internal/ingest"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	BatchSize int
}

// ingestSummary is the command's success payload.
type ingestSummary struct {
	File      string `json:"file"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Pallets   int    `json:"pallets"`
	Boxes     int    `json:"boxes"`
	Items     int    `json:"items"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Load a manifest file into the containment index",
		Long: `Load a tab-delimited manifest file (item, box, pallet per line) into
the containment index, replacing any previously ingested data.

An in-progress check is snapshotted into the history before the index is
rebuilt. Ingestion runs in bounded batches and can be interrupted with
Ctrl-C; an interrupted run leaves the previous database contents intact.

Example:
  aggcheck ingest --db ./aggcheck.db ./manifest.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "lines per ingestion batch (default from config)")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read manifest", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to stat manifest", err)
	}

	app := openApp(opts.cfg)
	defer app.Close()

	// Snapshot the in-progress check before discarding its context.
	app.Snapshot(app.Session.Reset())

	batch := opts.BatchSize
	if batch == 0 {
		batch = opts.cfg.BatchSize
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lines := ingest.SplitLines(string(data))
	res, err := ingest.Ingest(ctx, app.Index, lines, ingest.WithBatchSize(batch))
	if err != nil {
		return WrapExitError(ExitCommandError, "ingestion interrupted", err)
	}

	app.History.SetLastFile(history.FileMeta{
		Name:  filepath.Base(path),
		Size:  info.Size(),
		Date:  time.Now(),
		Lines: res.Processed,
	})

	app.SaveHierarchy(ctx)
	app.SaveNow(ctx)

	stats := app.Index.Stats()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(ingestSummary{
			File:      filepath.Base(path),
			Processed: res.Processed,
			Skipped:   res.Skipped,
			Pallets:   stats.Pallets,
			Boxes:     stats.Boxes,
			Items:     stats.Items,
		})
	}
	return out.Success(fmt.Sprintf(
		"Loaded %s: %d rows processed, %d skipped (%d pallets, %d boxes, %d items)",
		filepath.Base(path), res.Processed, res.Skipped,
		stats.Pallets, stats.Boxes, stats.Items,
	))
}
