package ingest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a scanned or file-read code for lookup.
//
// Strips ASCII control characters 0x00-0x1F and 0x7F-0x9F (GS1 group/record
// separators emitted by barcode scanners live in this range), applies NFC
// normalization, and trims surrounding whitespace. Returns "" when nothing
// printable remains.
//
// The same normalization is applied to file records and live scan input so
// both sides of a comparison agree.
func Normalize(code string) string {
	if code == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r <= 0x1F || (r >= 0x7F && r <= 0x9F) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(norm.NFC.String(b.String()))
}
