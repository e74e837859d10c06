package edn

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ParseError is the single error shape the whole package returns: a byte
// offset into the original input and a human-readable description of what
// was expected there. Grammar productions never recover from a ParseError;
// the first one aborts the parse.
type ParseError struct {
	Offset   int
	Expected string
	cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s", e.Offset, e.Expected)
}

// Unwrap exposes a wrapped cause, if any, so callers can use errors.Is/As
// to look through a chain of nested "expected X" failures (e.g. a failed
// pattern rewrite surfacing through "expected pattern").
func (e *ParseError) Unwrap() error { return e.cause }

func errExpected(offset int, expected string) error {
	return &ParseError{Offset: offset, Expected: expected}
}

// NewParseError builds the same *ParseError this package returns
// internally, for the tx and query packages, which recurse into this one
// at leaf positions and need to report failures in the same shape.
func NewParseError(offset int, expected string) error {
	return errExpected(offset, expected)
}

func errExpectedWrap(offset int, expected string, cause error) error {
	return &ParseError{Offset: offset, Expected: expected, cause: xerrors.Errorf("%s: %w", expected, cause)}
}

// NewParseErrorWrap is NewParseError, but chains cause so errors.Is/As can
// see through it; for callers (e.g. the query package's backward-attribute
// rewrite) that want to report a higher-level expectation without losing
// the lower-level failure that caused it.
func NewParseErrorWrap(offset int, expected string, cause error) error {
	return errExpectedWrap(offset, expected, cause)
}
