package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aggcheck/internal/ingest"
)

// lookupInfo is the JSON payload for a lookup result.
type lookupInfo struct {
	Code   string `json:"code"`
	Kind   string `json:"kind"` // "pallet" | "box" | "item"
	Pallet string `json:"pallet,omitempty"`
	Box    string `json:"box,omitempty"`
	Boxes  int    `json:"boxes,omitempty"`
	Items  int    `json:"items,omitempty"`
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <code>",
		Short: "Show containment details for a code",
		Long: `Classify a code against the loaded hierarchy and print what it
contains or where it lives: pallets list their boxes with item counts,
boxes show their owner pallet and item count, items show their box and
pallet.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLookup(opts *RootOptions, raw string, cmd *cobra.Command) error {
	app := openApp(opts.cfg)
	defer app.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	code := ingest.Normalize(raw)

	switch {
	case app.Index.HasPallet(code):
		pallet, err := app.Index.Pallet(code)
		if err != nil {
			return WrapExitError(ExitCommandError, "lookup failed", err)
		}
		if opts.Format == "json" {
			return out.Success(lookupInfo{Code: code, Kind: "pallet", Boxes: len(pallet.Boxes), Items: len(pallet.Items)})
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Pallet %s: %d boxes, %d items", code, len(pallet.Boxes), len(pallet.Items))
		boxes := make([]string, 0, len(pallet.Boxes))
		for id := range pallet.Boxes {
			boxes = append(boxes, id)
		}
		sort.Strings(boxes)
		for _, id := range boxes {
			if box, err := app.Index.Box(id); err == nil {
				fmt.Fprintf(&b, "\n  %s (%d items)", id, len(box.Items))
			}
		}
		return out.Success(b.String())

	case app.Index.HasBox(code):
		box, err := app.Index.Box(code)
		if err != nil {
			return WrapExitError(ExitCommandError, "lookup failed", err)
		}
		if opts.Format == "json" {
			return out.Success(lookupInfo{Code: code, Kind: "box", Pallet: box.OwnerPallet, Items: len(box.Items)})
		}
		return out.Success(fmt.Sprintf("Box %s: pallet %s, %d items", code, box.OwnerPallet, len(box.Items)))

	case app.Index.HasItem(code):
		item, err := app.Index.Item(code)
		if err != nil {
			return WrapExitError(ExitCommandError, "lookup failed", err)
		}
		if opts.Format == "json" {
			return out.Success(lookupInfo{Code: code, Kind: "item", Pallet: item.Pallet, Box: item.Box})
		}
		return out.Success(fmt.Sprintf("Item %s: box %s, pallet %s", code, item.Box, item.Pallet))

	default:
		_ = out.Error("NOT_FOUND", fmt.Sprintf("code %q not found in the loaded data", code), nil)
		return NewExitError(ExitFailure, "code not found")
	}
}
