package gff

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can use errors.Is instead of string
// matching, mirroring the taxonomy in spec.md 7.
var (
	ErrMalformedLine        = errors.New("malformed line")
	ErrCoordinateOrder      = errors.New("coordinate error")
	ErrInvalidAttributeToken = errors.New("invalid attribute token")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrMergeConflict        = errors.New("merge conflict")
	ErrEmptyInput           = errors.New("empty input")
	ErrUnknownDialectFeature = errors.New("unknown dialect feature")
)

// MalformedLineError reports a structural problem with a line: field
// count violations, in spec.md 4.3.
type MalformedLineError struct {
	Line   int
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed line: %s", e.Line, e.Reason)
}

func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }

// CoordinateError reports a start/end that is present but unparseable,
// or a start greater than end (spec.md 4.3, 9).
type CoordinateError struct {
	Line   int
	Reason string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("line %d: coordinate error: %s", e.Line, e.Reason)
}

func (e *CoordinateError) Unwrap() error { return ErrCoordinateOrder }

// InvalidAttributeTokenError reports an attribute token with an empty
// key, e.g. "=value" (spec.md 4.2).
type InvalidAttributeTokenError struct {
	Line  int
	Token string
}

func (e *InvalidAttributeTokenError) Error() string {
	return fmt.Sprintf("line %d: invalid attribute token: %q", e.Line, e.Token)
}

func (e *InvalidAttributeTokenError) Unwrap() error { return ErrInvalidAttributeToken }

// DuplicateIDError is raised under merge_strategy=error (spec.md 4.7).
type DuplicateIDError struct {
	Line int
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("line %d: duplicate id %q", e.Line, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// MergeConflictError is raised when merge_strategy=merge cannot
// reconcile two rows sharing an ID (spec.md 4.7).
type MergeConflictError struct {
	Line   int
	ID     string
	Field  string
	Reason string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("line %d: merge conflict for id %q on field %q: %s", e.Line, e.ID, e.Field, e.Reason)
}

func (e *MergeConflictError) Unwrap() error { return ErrMergeConflict }

// EmptyInputError means no features were found in the source at all.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no features found in %q", e.Source)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

// UnknownDialectFeatureError means dialect inference saw contradictory
// per-line dialects with no majority.
type UnknownDialectFeatureError struct {
	Detail string
}

func (e *UnknownDialectFeatureError) Error() string {
	return fmt.Sprintf("could not infer a consistent dialect: %s", e.Detail)
}

func (e *UnknownDialectFeatureError) Unwrap() error { return ErrUnknownDialectFeature }
