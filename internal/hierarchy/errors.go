package hierarchy

import (
	"errors"
	"fmt"
)

// Kind identifies which collection a lookup missed.
type Kind string

const (
	KindPallet Kind = "pallet"
	KindBox    Kind = "box"
	KindItem   Kind = "item"
)

// NotFoundError reports a lookup for an id the index has never seen.
// Non-fatal: callers treat it as a classification result, not a failure.
type NotFoundError struct {
	Kind Kind
	ID   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsNotFound returns true if the error is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
