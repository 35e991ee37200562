package history

import (
	"time"

	"github.com/roach88/aggcheck/internal/hierarchy"
	"github.com/roach88/aggcheck/internal/session"
)

// MaxChecks bounds the rolling log. Insertion is newest-first; eviction
// removes the oldest.
const MaxChecks = 50

// ReportRecent is how many recent checks a report includes.
const ReportRecent = 10

// FileMeta describes the manifest file behind the current index.
type FileMeta struct {
	Name  string    `json:"name"`
	Size  int64     `json:"size"`
	Date  time.Time `json:"date"`
	Lines int       `json:"lines"`
}

// Summary holds the headline counts of one check.
type Summary struct {
	Items   int `json:"items"`
	Pallets int `json:"pallets"`
	Boxes   int `json:"boxes"`
}

// CheckRecord is an immutable snapshot of one completed verification pass.
type CheckRecord struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	State     session.State   `json:"state"`
	File      *FileMeta       `json:"file,omitempty"`
	Stats     hierarchy.Stats `json:"stats"`
	Summary   Summary         `json:"summary"`
}

// Report is a pure read over the log and the live index.
type Report struct {
	Current  *CheckRecord    `json:"current,omitempty"`
	Stats    hierarchy.Stats `json:"stats"`
	Recent   []CheckRecord   `json:"recent"`
	LastFile *FileMeta       `json:"last_file,omitempty"`
}

// Log is the check history. Not safe for concurrent mutation; owned by the
// process and driven from a single logical thread, like the session.
type Log struct {
	checks   []CheckRecord
	current  *CheckRecord
	lastFile *FileMeta

	ids IDGenerator
	now func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithIDGenerator overrides the check id generator (for tests).
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Log) { l.ids = g }
}

// WithNow overrides the timestamp source (for tests).
func WithNow(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates an empty log with UUIDv7 ids and wall-clock timestamps.
func New(opts ...Option) *Log {
	l := &Log{
		ids: UUIDv7Generator{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record captures a displaced session state as a new CheckRecord.
//
// Returns nil without recording anything when the state has no progress
// (no pallet and no scanned items). Otherwise the record is prepended, the
// log is truncated to MaxChecks, and the new record becomes current.
func (l *Log) Record(state session.State, stats hierarchy.Stats) *CheckRecord {
	if !state.HasProgress() {
		return nil
	}

	check := CheckRecord{
		ID:        l.ids.Generate(),
		Timestamp: l.now(),
		State:     state.Clone(),
		File:      l.lastFile,
		Stats:     stats,
		Summary:   summarize(state),
	}

	l.checks = append([]CheckRecord{check}, l.checks...)
	if len(l.checks) > MaxChecks {
		l.checks = l.checks[:MaxChecks]
	}
	l.current = &l.checks[0]
	return l.current
}

func summarize(state session.State) Summary {
	sum := Summary{Items: len(state.Items)}
	if state.Pallet != "" {
		sum.Pallets = 1
	}
	if state.Box != "" {
		sum.Boxes = 1
	}
	return sum
}

// SetLastFile records the manifest file metadata for subsequent checks.
func (l *Log) SetLastFile(meta FileMeta) {
	l.lastFile = &meta
}

// LastFile returns the recorded manifest metadata, or nil.
func (l *Log) LastFile() *FileMeta {
	return l.lastFile
}

// Current returns the latest check record, or nil.
func (l *Log) Current() *CheckRecord {
	return l.current
}

// Checks returns a copy of the log, newest first.
func (l *Log) Checks() []CheckRecord {
	out := make([]CheckRecord, len(l.checks))
	copy(out, l.checks)
	return out
}

// Len returns the number of recorded checks.
func (l *Log) Len() int {
	return len(l.checks)
}

// Report combines the current check, live index stats, and the most recent
// ReportRecent checks. Pure read - no mutation.
func (l *Log) Report(stats hierarchy.Stats) Report {
	recent := l.checks
	if len(recent) > ReportRecent {
		recent = recent[:ReportRecent]
	}
	out := make([]CheckRecord, len(recent))
	copy(out, recent)

	return Report{
		Current:  l.current,
		Stats:    stats,
		Recent:   out,
		LastFile: l.lastFile,
	}
}

// Compact truncates the log to MaxChecks. Idempotent; safe to call from a
// host-driven tick. Normally a no-op because Record already truncates, but
// it also repairs logs restored from older, larger persisted documents.
func (l *Log) Compact() {
	if len(l.checks) > MaxChecks {
		l.checks = l.checks[:MaxChecks]
		l.current = &l.checks[0]
	}
}

// Clear empties the log, the current check, and the file metadata.
func (l *Log) Clear() {
	l.checks = nil
	l.current = nil
	l.lastFile = nil
}

// Restore replaces the log contents with previously persisted records.
// The slice is truncated to MaxChecks; the head becomes current.
func (l *Log) Restore(checks []CheckRecord, lastFile *FileMeta) {
	l.checks = make([]CheckRecord, len(checks))
	copy(l.checks, checks)
	if len(l.checks) > MaxChecks {
		l.checks = l.checks[:MaxChecks]
	}
	if len(l.checks) > 0 {
		l.current = &l.checks[0]
	} else {
		l.current = nil
	}
	l.lastFile = lastFile
}
