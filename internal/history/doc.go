// Package history keeps a bounded rolling log of completed verification
// passes.
//
// When a session resets (or its context is displaced) with progress, the
// displaced state is captured as an immutable CheckRecord and prepended to
// the log. The log keeps the newest MaxChecks records; older ones are
// evicted. Reports combine the latest record, live index stats, and the most
// recent entries.
//
// The log persists across sessions until explicitly cleared.
package history
