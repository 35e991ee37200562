// Package report renders the audit report as a plain-text document.
//
// The layout mirrors what operators expect from the exported file: a header
// with the generation timestamp, manifest file details, aggregate index
// stats, and the latest check with its 1-indexed scanned item list. Output
// is deterministic for a fixed generation time, which keeps it golden-
// testable.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/aggcheck/internal/history"
)

const divider = "========================================"

// timeLayout is the display format for all report timestamps.
const timeLayout = "2006-01-02 15:04:05"

// Render produces the plain-text report for rep, stamped with generatedAt.
func Render(rep history.Report, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("AGGREGATION CHECK REPORT\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format(timeLayout))

	if f := rep.LastFile; f != nil {
		fmt.Fprintf(&b, "Data file: %s\n", f.Name)
		fmt.Fprintf(&b, "File processed: %s\n", f.Date.Format(timeLayout))
		fmt.Fprintf(&b, "Lines processed: %d\n", f.Lines)
	} else {
		b.WriteString("Data file: none\n")
	}
	b.WriteString("\n")

	b.WriteString("DATA STATISTICS:\n")
	fmt.Fprintf(&b, "Pallets: %d\n", rep.Stats.Pallets)
	fmt.Fprintf(&b, "Boxes: %d\n", rep.Stats.Boxes)
	fmt.Fprintf(&b, "Items: %d\n\n", rep.Stats.Items)

	if check := rep.Current; check != nil {
		b.WriteString("LATEST CHECK:\n")
		fmt.Fprintf(&b, "Checked at: %s\n", check.Timestamp.Format(timeLayout))
		fmt.Fprintf(&b, "Pallets checked: %d\n", check.Summary.Pallets)
		fmt.Fprintf(&b, "Boxes checked: %d\n", check.Summary.Boxes)
		fmt.Fprintf(&b, "Items checked: %d\n", check.Summary.Items)

		if check.State.Pallet != "" {
			fmt.Fprintf(&b, "Pallet: %s\n", check.State.Pallet)
		}
		if check.State.Box != "" {
			fmt.Fprintf(&b, "Box: %s\n", check.State.Box)
		}
		if len(check.State.Items) > 0 {
			fmt.Fprintf(&b, "\nSCANNED ITEMS (%d):\n", len(check.State.Items))
			for i, item := range check.State.Items {
				fmt.Fprintf(&b, "%d. %s\n", i+1, item)
			}
		}
	} else {
		b.WriteString("LATEST CHECK: none recorded\n")
	}

	if len(rep.Recent) > 0 {
		fmt.Fprintf(&b, "\nRECENT CHECKS (%d):\n", len(rep.Recent))
		for _, check := range rep.Recent {
			name := "-"
			if check.File != nil {
				name = check.File.Name
			}
			fmt.Fprintf(&b, "%s  pallets=%d boxes=%d items=%d  %s\n",
				check.Timestamp.Format(timeLayout),
				check.Summary.Pallets,
				check.Summary.Boxes,
				check.Summary.Items,
				name,
			)
		}
	}

	b.WriteString("\n" + divider + "\n")
	b.WriteString("Generated by the aggregation check system\n")
	return b.String()
}

// Filename derives the export file name from the manifest name and the
// generation date, e.g. "report_manifest_2026-08-30.txt".
func Filename(meta *history.FileMeta, generatedAt time.Time) string {
	base := "check"
	if meta != nil && meta.Name != "" {
		base = meta.Name
		if i := strings.LastIndex(base, "."); i > 0 {
			base = base[:i]
		}
	}
	return fmt.Sprintf("report_%s_%s.txt", base, generatedAt.Format("2006-01-02"))
}
