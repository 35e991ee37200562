package ingest

import "strings"

// Record is one parsed manifest row. Transient: it exists only between
// parsing a line and registering it with the index.
type Record struct {
	Item           string
	Box            string
	Pallet         string
	ProductionDate string
	ExpiryDate     string
}

// ParseRecord splits a manifest line into a Record.
//
// Returns nil for malformed rows: fewer than three tab-separated fields, or
// any of item/box/pallet normalizing to empty. Callers count nil results as
// skipped. The optional date fields are trimmed but otherwise opaque.
func ParseRecord(line string) *Record {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return nil
	}

	rec := &Record{
		Item:   Normalize(parts[0]),
		Box:    Normalize(parts[1]),
		Pallet: Normalize(parts[2]),
	}
	if rec.Item == "" || rec.Box == "" || rec.Pallet == "" {
		return nil
	}

	if len(parts) > 3 {
		rec.ProductionDate = strings.TrimSpace(parts[3])
	}
	if len(parts) > 4 {
		rec.ExpiryDate = strings.TrimSpace(parts[4])
	}
	return rec
}

// SplitLines splits manifest text on CRLF or LF line endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
