// Package hierarchy holds the three-level containment index built from bulk
// manifest ingestion: pallets contain boxes, boxes contain items.
//
// The index is rebuilt wholesale on every file ingestion and queried during
// interactive verification. Lookups are by exact code only.
//
// # Registration Semantics
//
// Register materializes pallet and box entries before the item dedup check,
// so containers can exist even when the row that introduced them turned out
// to be a duplicate item.
//
// Item identity is global: an item id binds to exactly one (box, pallet)
// pair for the lifetime of the index. Later rows naming the same item are
// ignored in full - no relationship update, no error.
//
// A box keeps the pallet seen at its first registration as OwnerPallet even
// if later rows reference it under another pallet. Such rows still add the
// box to the other pallet's box set, so a box can be a member of two pallets
// while being owned by one. This anomaly is preserved deliberately; see the
// package tests and DESIGN.md.
package hierarchy
