package session

import (
	"errors"
	"fmt"
)

// ScanErrorCode categorizes scan rejections.
type ScanErrorCode string

const (
	// ErrCodeNotFound indicates the code is unknown to the index.
	ErrCodeNotFound ScanErrorCode = "NOT_FOUND"

	// ErrCodeNeedPallet indicates an item was scanned before any pallet.
	ErrCodeNeedPallet ScanErrorCode = "NEED_PALLET"

	// ErrCodeNeedBox indicates an item was scanned before any box.
	ErrCodeNeedBox ScanErrorCode = "NEED_BOX"

	// ErrCodeConflict indicates the code belongs to a different pallet or
	// box than the current context.
	ErrCodeConflict ScanErrorCode = "CONFLICT"

	// ErrCodeDuplicateScan indicates the item is already in the scanned list.
	ErrCodeDuplicateScan ScanErrorCode = "DUPLICATE_SCAN"
)

// ScanError is a rejected scan. All rejections are non-fatal and leave the
// session unchanged; the caller decides on user-facing messaging.
type ScanError struct {
	// Code identifies the rejection category.
	Code ScanErrorCode

	// Scanned is the normalized code that was rejected.
	Scanned string

	// ExpectedPallet is set for conflicts: the pallet the code belongs to.
	ExpectedPallet string

	// ExpectedBox is set for item conflicts: the box the item belongs to.
	ExpectedBox string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	switch e.Code {
	case ErrCodeConflict:
		if e.ExpectedBox != "" {
			return fmt.Sprintf("%s: %q belongs to box %q on pallet %q", e.Code, e.Scanned, e.ExpectedBox, e.ExpectedPallet)
		}
		return fmt.Sprintf("%s: %q belongs to pallet %q", e.Code, e.Scanned, e.ExpectedPallet)
	default:
		return fmt.Sprintf("%s: %q", e.Code, e.Scanned)
	}
}

// IsScanError extracts a ScanError from err.
// Uses errors.As to handle wrapped errors.
func IsScanError(err error) (*ScanError, bool) {
	var se *ScanError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsConflict returns true if err is a containment conflict rejection.
func IsConflict(err error) bool {
	se, ok := IsScanError(err)
	return ok && se.Code == ErrCodeConflict
}

// IsNotFound returns true if err is an unknown-code rejection.
func IsNotFound(err error) bool {
	se, ok := IsScanError(err)
	return ok && se.Code == ErrCodeNotFound
}
