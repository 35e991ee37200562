package harness

import (
	"fmt"
	"reflect"

	"github.com/roach88/aggcheck/internal/hierarchy"
	"github.com/roach88/aggcheck/internal/session"
)

// TraceEvent is one replayed step as recorded in the trace.
type TraceEvent struct {
	Step    int    `json:"step"`
	Code    string `json:"code,omitempty"`
	Removed string `json:"removed,omitempty"`
	Reset   bool   `json:"reset,omitempty"`

	// Kind is set for accepted scans, Error for rejections.
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`

	// Pallet/Box/Items reflect the session context after the step.
	Pallet string `json:"pallet"`
	Box    string `json:"box"`
	Items  int    `json:"items"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Trace    []TraceEvent
	Final    session.State
	Failures []string
}

// Pass reports whether every expectation held.
func (r *Result) Pass() bool {
	return len(r.Failures) == 0
}

// Run replays a scenario: ingest records, replay scans, collect the trace
// and expectation failures. Running never returns an error for expectation
// mismatches - those land in Result.Failures.
func Run(sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	index := hierarchy.New()
	for _, rec := range sc.Records {
		index.Register(rec.Item, rec.Box, rec.Pallet)
	}
	sess := session.New(index)

	result := &Result{}
	for i, step := range sc.Scans {
		ev := TraceEvent{Step: i + 1}

		switch {
		case step.Reset:
			sess.Reset()
			ev.Reset = true

		case step.Remove != "":
			sess.Remove(step.Remove)
			ev.Removed = step.Remove

		default:
			ev.Code = step.Code
			res, err := sess.Scan(step.Code)
			if err != nil {
				if se, ok := session.IsScanError(err); ok {
					ev.Error = string(se.Code)
				} else {
					return nil, fmt.Errorf("step %d: %w", i+1, err)
				}
			} else {
				ev.Kind = string(res.Kind)
			}
		}

		state := sess.State()
		ev.Pallet = state.Pallet
		ev.Box = state.Box
		ev.Items = len(state.Items)
		result.Trace = append(result.Trace, ev)

		if step.Expect != nil {
			checkExpect(result, i+1, step.Expect, ev)
		}
	}

	result.Final = sess.State()
	if sc.Final != nil {
		checkFinal(result, sc.Final, result.Final)
	}
	return result, nil
}

func checkExpect(result *Result, step int, want *Expect, got TraceEvent) {
	if want.Error != "" {
		if got.Error != want.Error {
			result.Failures = append(result.Failures,
				fmt.Sprintf("step %d: expected error %s, got kind=%q error=%q", step, want.Error, got.Kind, got.Error))
		}
		return
	}
	if want.Kind != "" && got.Kind != want.Kind {
		result.Failures = append(result.Failures,
			fmt.Sprintf("step %d: expected kind %s, got kind=%q error=%q", step, want.Kind, got.Kind, got.Error))
	}
	if want.Kind == "" && got.Error != "" {
		result.Failures = append(result.Failures,
			fmt.Sprintf("step %d: expected acceptance, got error %s", step, got.Error))
	}
}

func checkFinal(result *Result, want *FinalState, got session.State) {
	if got.Pallet != want.Pallet {
		result.Failures = append(result.Failures,
			fmt.Sprintf("final: expected pallet %q, got %q", want.Pallet, got.Pallet))
	}
	if got.Box != want.Box {
		result.Failures = append(result.Failures,
			fmt.Sprintf("final: expected box %q, got %q", want.Box, got.Box))
	}
	wantItems := want.Items
	if wantItems == nil {
		wantItems = []string{}
	}
	gotItems := got.Items
	if gotItems == nil {
		gotItems = []string{}
	}
	if !reflect.DeepEqual(wantItems, gotItems) {
		result.Failures = append(result.Failures,
			fmt.Sprintf("final: expected items %v, got %v", wantItems, gotItems))
	}
}
