package orderbook

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind names a failure mode without binding it to a specific message,
// so callers can branch on category.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindMalformedInput
	ErrorKindStaleEvent
	ErrorKindSequenceGap
	ErrorKindInvariantViolation
	ErrorKindSnapshotInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindMalformedInput:
		return "MalformedInput"
	case ErrorKindStaleEvent:
		return "StaleEvent"
	case ErrorKindSequenceGap:
		return "SequenceGap"
	case ErrorKindInvariantViolation:
		return "InvariantViolation"
	case ErrorKindSnapshotInvalid:
		return "SnapshotInvalid"
	default:
		return "Unknown"
	}
}

// Error wraps a failure with its taxonomy kind so the state machine and the
// host can distinguish a silent discard from one that should surface.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("orderbook: %s: %s", e.Kind, e.msg)
}

var (
	ErrMalformedInput      = &Error{Kind: ErrorKindMalformedInput, msg: "malformed input"}
	ErrStaleEvent          = &Error{Kind: ErrorKindStaleEvent, msg: "stale event"}
	ErrSequenceGap         = &Error{Kind: ErrorKindSequenceGap, msg: "sequence gap"}
	ErrInvariantViolation  = &Error{Kind: ErrorKindInvariantViolation, msg: "invariant violation"}
	ErrSnapshotInvalid     = &Error{Kind: ErrorKindSnapshotInvalid, msg: "snapshot invalid"}
)

func newMalformedInputError(price, quantity decimal.Decimal) *Error {
	return &Error{
		Kind: ErrorKindMalformedInput,
		msg:  fmt.Sprintf("non-positive price or negative quantity: price=%s quantity=%s", price, quantity),
	}
}

// KindOf extracts the ErrorKind from err if it is (or wraps) an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindUnknown
}
