// Package harness runs YAML-defined conformance scenarios against the
// verification state machine.
//
// A scenario declares manifest records to ingest, a sequence of scans with
// expected outcomes, and optionally the final session state. The harness
// replays the scans, records an event trace, and reports assertion failures.
// Traces can additionally be compared against golden files, which serve as
// the source of truth for expected scan behavior.
//
// Scenarios live in YAML so non-Go contributors (warehouse process owners)
// can read and extend the conformance suite.
package harness
