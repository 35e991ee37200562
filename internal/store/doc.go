// Package store provides SQLite-backed persistence for the aggregation
// checker.
//
// Three logical documents are stored:
//   - Hierarchy snapshot: the full pallet/box/item relationship set,
//     round-trippable without loss (relational tables).
//   - Session snapshot: the current scan state plus a timestamp
//     (singleton row, items as a JSON array).
//   - History log: the capped check list, current check, and last-file
//     metadata.
//
// Saves replace documents wholesale inside a transaction; there is no
// incremental update path because the in-memory structures are small and
// authoritative. Persistence failures are surfaced as errors and callers
// degrade to in-memory-only operation - they never abort a scan session or
// an ingestion run.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
