// Package ingest turns raw delimited manifest text into containment index
// registrations.
//
// Input is UTF-8 text, one record per line, fields separated by a horizontal
// tab: item, box, pallet, then optional production and expiry dates. Lines
// with fewer than three fields are skipped and counted; blank lines are
// skipped silently.
//
// Code normalization is shared with live scanning: ASCII control ranges
// 0x00-0x1F and 0x7F-0x9F are stripped (GS1 separators land here), the text
// is NFC normalized, and surrounding whitespace is trimmed. An empty result
// after normalization is treated as absent.
//
// Ingestion is resumable: the Ingestor processes a bounded batch per Step
// call and checks its context at each batch boundary, so a host can drive it
// cooperatively or run it to completion with Run.
package ingest
