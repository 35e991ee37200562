package session

import (
	"log/slog"

	"github.com/roach88/aggcheck/internal/hierarchy"
	"github.com/roach88/aggcheck/internal/ingest"
)

// State is the current verification context. Empty strings mean "none
// selected". Items preserves scan order; order is display- and
// report-significant.
type State struct {
	Pallet string   `json:"pallet"`
	Box    string   `json:"box"`
	Items  []string `json:"items"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Pallet: s.Pallet, Box: s.Box}
	if len(s.Items) > 0 {
		out.Items = make([]string, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// HasProgress reports whether the state is worth snapshotting: a pallet is
// selected or at least one item has been scanned.
func (s State) HasProgress() bool {
	return s.Pallet != "" || len(s.Items) > 0
}

// ScanKind classifies an accepted scan.
type ScanKind string

const (
	// KindPalletSelected: the code was a pallet; context restarted on it.
	KindPalletSelected ScanKind = "pallet_selected"

	// KindBoxEntered: a box scan selected a box (possibly inferring the
	// pallet from the box's owner).
	KindBoxEntered ScanKind = "box_entered"

	// KindBoxLeft: the current box was scanned again, toggling it off.
	KindBoxLeft ScanKind = "box_left"

	// KindItemScanned: an item was appended to the scanned list.
	KindItemScanned ScanKind = "item_scanned"
)

// ScanResult is the outcome of an accepted scan.
type ScanResult struct {
	Kind ScanKind

	// Pallet and Box are the context after the scan.
	Pallet string
	Box    string

	// Item is set for item scans.
	Item string

	// ItemCount is the scanned-list length after the scan.
	ItemCount int

	// Displaced holds the previous state when a pallet scan overrode a
	// context with accumulated items. The caller hands it to the check
	// history; the session does not retain it.
	Displaced *State
}

// Session is the scan-verification state machine. It queries but never
// mutates the containment index.
type Session struct {
	index *hierarchy.Index
	state State
}

// New creates an idle session over index.
func New(index *hierarchy.Index) *Session {
	return &Session{index: index}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.Clone()
}

// HasProgress reports whether a reset would snapshot anything.
func (s *Session) HasProgress() bool {
	return s.state.HasProgress()
}

// Scan processes one scanned code.
//
// The raw code is normalized with the same rules as file ingestion, then
// classified by priority: pallet, box, item, unknown. Rejections return a
// *ScanError and leave the state untouched.
func (s *Session) Scan(raw string) (ScanResult, error) {
	code := ingest.Normalize(raw)
	if code == "" {
		return ScanResult{}, &ScanError{Code: ErrCodeNotFound, Scanned: raw}
	}

	switch {
	case s.index.HasPallet(code):
		return s.scanPallet(code), nil
	case s.index.HasBox(code):
		return s.scanBox(code)
	case s.index.HasItem(code):
		return s.scanItem(code)
	default:
		return ScanResult{}, &ScanError{Code: ErrCodeNotFound, Scanned: code}
	}
}

// scanPallet restarts the context on the scanned pallet. A pallet scan is
// absorbing: it applies from any state, even mid-verification of another
// pallet. If items had accumulated, the displaced state is handed back for
// snapshotting.
func (s *Session) scanPallet(code string) ScanResult {
	var displaced *State
	if len(s.state.Items) > 0 {
		prev := s.state.Clone()
		displaced = &prev
	}

	s.state = State{Pallet: code}
	slog.Debug("pallet selected", "pallet", code, "displaced", displaced != nil)

	return ScanResult{
		Kind:      KindPalletSelected,
		Pallet:    code,
		Displaced: displaced,
	}
}

func (s *Session) scanBox(code string) (ScanResult, error) {
	box, err := s.index.Box(code)
	if err != nil {
		return ScanResult{}, err
	}

	switch {
	case s.state.Pallet == "":
		// No pallet selected: adopt the box's owner as the pallet.
		s.state = State{Pallet: box.OwnerPallet, Box: code}
		return ScanResult{Kind: KindBoxEntered, Pallet: box.OwnerPallet, Box: code}, nil

	case box.OwnerPallet == s.state.Pallet:
		if s.state.Box == code {
			// Same box again: explicit "leave this box" gesture.
			s.state.Box = ""
			s.state.Items = nil
			return ScanResult{Kind: KindBoxLeft, Pallet: s.state.Pallet}, nil
		}
		// Another box of the current pallet: switch to it.
		s.state.Box = code
		s.state.Items = nil
		return ScanResult{Kind: KindBoxEntered, Pallet: s.state.Pallet, Box: code}, nil

	default:
		return ScanResult{}, &ScanError{
			Code:           ErrCodeConflict,
			Scanned:        code,
			ExpectedPallet: box.OwnerPallet,
		}
	}
}

func (s *Session) scanItem(code string) (ScanResult, error) {
	item, err := s.index.Item(code)
	if err != nil {
		return ScanResult{}, err
	}

	if s.state.Pallet == "" {
		return ScanResult{}, &ScanError{Code: ErrCodeNeedPallet, Scanned: code}
	}
	if s.state.Box == "" {
		return ScanResult{}, &ScanError{Code: ErrCodeNeedBox, Scanned: code}
	}
	if item.Pallet != s.state.Pallet || item.Box != s.state.Box {
		return ScanResult{}, &ScanError{
			Code:           ErrCodeConflict,
			Scanned:        code,
			ExpectedPallet: item.Pallet,
			ExpectedBox:    item.Box,
		}
	}
	for _, scanned := range s.state.Items {
		if scanned == code {
			return ScanResult{}, &ScanError{Code: ErrCodeDuplicateScan, Scanned: code}
		}
	}

	s.state.Items = append(s.state.Items, code)
	return ScanResult{
		Kind:      KindItemScanned,
		Pallet:    s.state.Pallet,
		Box:       s.state.Box,
		Item:      code,
		ItemCount: len(s.state.Items),
	}, nil
}

// Remove deletes an item from the scanned list by value.
// Idempotent: removing an absent item is a no-op and returns false.
func (s *Session) Remove(raw string) bool {
	code := ingest.Normalize(raw)
	for i, scanned := range s.state.Items {
		if scanned == code {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset clears the session to idle. If any progress existed, the displaced
// state is returned so the caller can snapshot it into the check history;
// otherwise Reset returns nil.
func (s *Session) Reset() *State {
	var displaced *State
	if s.state.HasProgress() {
		prev := s.state.Clone()
		displaced = &prev
	}
	s.state = State{}
	return displaced
}

// Restore installs a previously persisted state, pruned for consistency
// against the current index:
//
//   - pallet unknown: the whole state is discarded (session stays idle)
//   - box unknown: box and items are cleared, the pallet is kept
//   - otherwise: scanned items are filtered to ids the index still has
//
// Returns the state actually installed.
func (s *Session) Restore(saved State) State {
	switch {
	case saved.Pallet == "" || !s.index.HasPallet(saved.Pallet):
		s.state = State{}

	case saved.Box != "" && !s.index.HasBox(saved.Box):
		s.state = State{Pallet: saved.Pallet}

	default:
		kept := saved.Items[:0:0]
		for _, item := range saved.Items {
			if s.index.HasItem(item) {
				kept = append(kept, item)
			}
		}
		s.state = State{Pallet: saved.Pallet, Box: saved.Box, Items: kept}
	}
	return s.state.Clone()
}
