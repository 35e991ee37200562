package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/aggcheck/internal/session"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Remove []string
}

// scanOutcome is one scan's JSON payload.
type scanOutcome struct {
	Code   string `json:"code"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
	Pallet string `json:"pallet,omitempty"`
	Box    string `json:"box,omitempty"`
	Items  int    `json:"items"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [codes...]",
		Short: "Scan codes against the loaded hierarchy",
		Long: `Verify scanned codes against the ingested containment data.

With arguments, each code is scanned in order and the command exits; the
exit code is 1 if any scan was rejected. Without arguments the command reads
codes from stdin, one per line, until EOF. In interactive mode a few
directives are available alongside plain codes:

  /remove CODE   remove a scanned item from the current list
  /reset         snapshot progress into the history and clear the session
  /state         print the current pallet/box/item context
  /quit          exit

Session state is saved after every mutation, and additionally on the
autosave tick configured in the config file.

Examples:
  aggcheck check P1 B1 KM1
  cat scans.txt | aggcheck check`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Remove, "remove", nil, "remove an item from the scanned list instead of scanning")

	return cmd
}

func runCheck(opts *CheckOptions, codes []string, cmd *cobra.Command) error {
	app := openApp(opts.cfg)
	defer app.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	for _, code := range opts.Remove {
		app.Session.Remove(code)
		app.SaveNow(ctx)
	}

	if len(codes) > 0 {
		rejected := false
		for _, code := range codes {
			if !applyScan(ctx, app, out, code) {
				rejected = true
			}
		}
		if rejected {
			return NewExitError(ExitFailure, "one or more scans were rejected")
		}
		return nil
	}
	if len(opts.Remove) > 0 {
		return nil
	}

	return runInteractive(ctx, app, out, cmd.InOrStdin(), cmd.OutOrStdout())
}

// applyScan runs one scan, prints the outcome, records any displaced state,
// and saves. Returns false when the scan was rejected.
func applyScan(ctx context.Context, app *App, out *OutputFormatter, code string) bool {
	res, err := app.Session.Scan(code)
	if err != nil {
		se, ok := session.IsScanError(err)
		if !ok {
			// Index lookups cannot fail for codes the session classified;
			// anything else is a programming error worth surfacing loudly.
			_ = out.Error("INTERNAL", err.Error(), nil)
			return false
		}
		_ = out.Error(string(se.Code), scanErrorMessage(se), se)
		return false
	}

	app.Snapshot(res.Displaced)
	app.SaveNow(ctx)

	state := app.Session.State()
	outcome := scanOutcome{
		Code:   code,
		Kind:   string(res.Kind),
		Pallet: state.Pallet,
		Box:    state.Box,
		Items:  len(state.Items),
	}
	if out.Format == "json" {
		_ = out.Success(outcome)
	} else {
		_ = out.Success(scanMessage(res))
	}
	return true
}

func scanMessage(res session.ScanResult) string {
	switch res.Kind {
	case session.KindPalletSelected:
		return fmt.Sprintf("Pallet selected: %s", res.Pallet)
	case session.KindBoxEntered:
		return fmt.Sprintf("Box selected: %s (pallet %s)", res.Box, res.Pallet)
	case session.KindBoxLeft:
		return fmt.Sprintf("Left box. Scan any box of pallet %s.", res.Pallet)
	case session.KindItemScanned:
		return fmt.Sprintf("Item %s added (%d scanned)", res.Item, res.ItemCount)
	default:
		return string(res.Kind)
	}
}

func scanErrorMessage(se *session.ScanError) string {
	switch se.Code {
	case session.ErrCodeNotFound:
		return fmt.Sprintf("code %q not found in the loaded data", se.Scanned)
	case session.ErrCodeNeedPallet:
		return "scan a pallet first"
	case session.ErrCodeNeedBox:
		return "scan a box first"
	case session.ErrCodeConflict:
		if se.ExpectedBox != "" {
			return fmt.Sprintf("item %q belongs to box %s on pallet %s", se.Scanned, se.ExpectedBox, se.ExpectedPallet)
		}
		return fmt.Sprintf("box %q belongs to pallet %s", se.Scanned, se.ExpectedPallet)
	case session.ErrCodeDuplicateScan:
		return fmt.Sprintf("item %q is already scanned", se.Scanned)
	default:
		return se.Error()
	}
}

// runInteractive reads codes from stdin until EOF or /quit. Input and the
// autosave tick are serviced by a single loop so core state is only ever
// mutated from one goroutine.
func runInteractive(ctx context.Context, app *App, out *OutputFormatter, in io.Reader, w io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var tick <-chan time.Time
	if app.Config.AutosaveSeconds > 0 {
		ticker := time.NewTicker(time.Duration(app.Config.AutosaveSeconds) * time.Second)
		defer ticker.Stop()
		tick = ticker.C
	}

	fmt.Fprintln(w, "Scan a pallet to begin. /quit to exit.")
	for {
		select {
		case <-ctx.Done():
			app.SaveNow(context.Background())
			return nil

		case <-tick:
			app.SaveNow(ctx)
			app.MaybeCompact()

		case line, ok := <-lines:
			if !ok {
				app.SaveNow(ctx)
				return nil
			}
			if done := handleLine(ctx, app, out, w, line); done {
				app.SaveNow(ctx)
				return nil
			}
		}
	}
}

// handleLine dispatches one interactive line. Returns true on /quit.
func handleLine(ctx context.Context, app *App, out *OutputFormatter, w io.Writer, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false

	case trimmed == "/quit":
		return true

	case trimmed == "/reset":
		app.Snapshot(app.Session.Reset())
		app.SaveNow(ctx)
		fmt.Fprintln(w, "Check reset. Scan a pallet to begin.")
		return false

	case trimmed == "/state":
		printState(w, app)
		return false

	case strings.HasPrefix(trimmed, "/remove "):
		code := strings.TrimSpace(strings.TrimPrefix(trimmed, "/remove "))
		if app.Session.Remove(code) {
			app.SaveNow(ctx)
			fmt.Fprintf(w, "Removed %s\n", code)
		} else {
			fmt.Fprintf(w, "%s is not in the scanned list\n", code)
		}
		return false

	default:
		applyScan(ctx, app, out, trimmed)
		return false
	}
}

func printState(w io.Writer, app *App) {
	state := app.Session.State()
	pallet := state.Pallet
	if pallet == "" {
		pallet = "(none)"
	}
	box := state.Box
	if box == "" {
		box = "(none)"
	}
	fmt.Fprintf(w, "Pallet: %s\nBox: %s\nItems scanned: %d\n", pallet, box, len(state.Items))
	for i, item := range state.Items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, item)
	}
}
