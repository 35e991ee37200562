package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/aggcheck/internal/hierarchy"
)

// DefaultBatchSize is the number of lines processed per Step call.
// Bounded batches keep the host responsive during large ingestions.
const DefaultBatchSize = 1000

// Result summarizes a completed ingestion run.
type Result struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Ingestor is a resumable ingestion run over a fixed set of lines.
//
// Each Step call processes at most one batch and returns whether the run is
// complete. Cancellation is checked only at batch boundaries; a batch that
// has started always runs to completion, so index mutations never interleave
// with other core operations.
type Ingestor struct {
	index *hierarchy.Index
	lines []string
	batch int
	pos   int

	processed int
	skipped   int
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithBatchSize overrides the per-step batch size.
// Values below 1 fall back to DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(in *Ingestor) {
		if n >= 1 {
			in.batch = n
		}
	}
}

// NewIngestor creates a run that registers the given lines into index.
// The lines slice is not copied; callers must not mutate it mid-run.
func NewIngestor(index *hierarchy.Index, lines []string, opts ...Option) *Ingestor {
	in := &Ingestor{
		index: index,
		lines: lines,
		batch: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Step processes the next batch of lines.
//
// Returns done=true once all lines are consumed. Returns ctx.Err() if the
// context was cancelled before the batch started; progress made so far is
// kept and the run can be resumed with a fresh context.
func (in *Ingestor) Step(ctx context.Context) (done bool, err error) {
	if in.pos >= len(in.lines) {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	end := in.pos + in.batch
	if end > len(in.lines) {
		end = len(in.lines)
	}

	for _, line := range in.lines[in.pos:end] {
		// Blank lines are skipped silently and not counted as errors.
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := ParseRecord(line)
		if rec == nil {
			in.skipped++
			continue
		}
		in.index.Register(rec.Item, rec.Box, rec.Pallet)
		in.processed++
	}
	in.pos = end

	return in.pos >= len(in.lines), nil
}

// Run drives Step until the run completes or ctx is cancelled.
func (in *Ingestor) Run(ctx context.Context) (Result, error) {
	for {
		done, err := in.Step(ctx)
		if err != nil {
			return in.Result(), err
		}
		if done {
			res := in.Result()
			slog.Debug("ingestion complete",
				"lines", len(in.lines),
				"processed", res.Processed,
				"skipped", res.Skipped,
			)
			return res, nil
		}
	}
}

// Result returns the counts accumulated so far.
func (in *Ingestor) Result() Result {
	return Result{Processed: in.processed, Skipped: in.skipped}
}

// Remaining returns how many lines have not been consumed yet.
func (in *Ingestor) Remaining() int {
	return len(in.lines) - in.pos
}

// Ingest is the synchronous convenience path: it clears the index, runs a
// full ingestion over lines, and returns the counts.
func Ingest(ctx context.Context, index *hierarchy.Index, lines []string, opts ...Option) (Result, error) {
	index.Clear()
	return NewIngestor(index, lines, opts...).Run(ctx)
}
