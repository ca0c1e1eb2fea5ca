// Package fault defines the error kinds surfaced by the ledger, the
// prediction engine and the importer.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidRange      Kind = "invalid_range"
	KindNotFound          Kind = "not_found"
	KindMalformedImport   Kind = "malformed_import"
)

// Sentinels for errors.Is checks. Every *Error unwraps to one of these.
var (
	// ErrInvalidTransition is returned when an operation is illegal in the
	// current lifecycle state (starting while a cycle is open, undoing the
	// start of a closed cycle).
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidRange is returned when a date violates ordering constraints.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformedImport is returned when an import payload lacks required data.
	ErrMalformedImport = errors.New("malformed import")
)

// Error carries the kind of failure, the operation that failed and a
// human-readable reason.
type Error struct {
	Kind   Kind
	Op     string
	Reason string
}

// New creates a domain error.
func New(kind Kind, op, reason string) *Error {
	return &Error{Kind: kind, Op: op, Reason: reason}
}

// Newf creates a domain error with a formatted reason.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.sentinel(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.sentinel(), e.Reason)
}

// Unwrap returns the sentinel matching the error kind.
func (e *Error) Unwrap() error {
	return e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindInvalidRange:
		return ErrInvalidRange
	case KindNotFound:
		return ErrNotFound
	case KindMalformedImport:
		return ErrMalformedImport
	}
	return errors.New(string(e.Kind))
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err carries no domain kind.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrInvalidRange):
		return KindInvalidRange
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMalformedImport):
		return KindMalformedImport
	}
	return ""
}

// NotFound is shorthand for a KindNotFound error about an entity.
func NotFound(op, entity, id string) *Error {
	return Newf(KindNotFound, op, "%s %s not found", entity, id)
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
