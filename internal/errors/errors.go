package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ParseKind names the structural expectation a timesheet export violated.
type ParseKind string

const (
	KindTable         ParseKind = "table"
	KindMissingColumn ParseKind = "missing_column"
	KindPayPeriod     ParseKind = "pay_period"
)

// Sentinel errors matched by errors.Is against a *ParseError of the same kind.
var (
	ErrMalformedTable = stderrors.New("input is not a readable table")
	ErrMissingColumn  = stderrors.New("required column is missing")
	ErrPayPeriod      = stderrors.New("pay period cell is missing or malformed")
)

// ParseError is a structural failure: the whole export must be rejected.
// Cell-level problems never produce one.
type ParseError struct {
	Kind    ParseKind
	Source  string
	Line    int
	Column  string
	Message string
	Cause   error
}

// NewParseError creates a structural parse error of the given kind.
func NewParseError(kind ParseKind, message string, cause error) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// MissingColumnError reports a required column absent from the header row.
func MissingColumnError(columns ...string) *ParseError {
	e := NewParseError(KindMissingColumn,
		fmt.Sprintf("required column(s) missing: %s", strings.Join(columns, ", ")), nil)
	if len(columns) == 1 {
		e.Column = columns[0]
	}
	return e
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(string(e.Kind))
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error for the error's kind.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case KindTable:
		return target == ErrMalformedTable
	case KindMissingColumn:
		return target == ErrMissingColumn
	case KindPayPeriod:
		return target == ErrPayPeriod
	}
	return false
}

// WithSource records which input the error came from.
func (e *ParseError) WithSource(source string) *ParseError {
	e.Source = source
	return e
}

// WithLine records the 1-based record number the error refers to.
func (e *ParseError) WithLine(line int) *ParseError {
	e.Line = line
	return e
}

// AppError converts the parse error into the generic application error.
func (e *ParseError) AppError() *AppError {
	app := NewParsingError(e.Message, e.Cause).
		WithContext("kind", string(e.Kind))
	if e.Source != "" {
		app.WithContext("source", e.Source)
	}
	if e.Line > 0 {
		app.WithContext("line", e.Line)
	}
	if e.Column != "" {
		app.WithContext("column", e.Column)
	}
	return app
}

// AsParseError extracts a *ParseError from an error chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
